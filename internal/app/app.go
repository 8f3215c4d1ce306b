package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"sync"

	app_monitor "dmxMapper/internal/application/artnet_monitor"
	app_processor "dmxMapper/internal/application/processor"
	"dmxMapper/internal/application/simulator"
	"dmxMapper/internal/config"
	domain_artnet "dmxMapper/internal/domain/artnet"
	"dmxMapper/internal/domain/dmxmap"
	infra_artnet "dmxMapper/internal/infrastructure/artnet"
	infra_monitor "dmxMapper/internal/infrastructure/artnet_monitor"
	"dmxMapper/internal/logging"
)

// App wires the Art-Net pipeline around one shared mapper:
// listener -> parser -> processor (mapping) -> sender.
type App struct {
	ctx      context.Context
	cancel   context.CancelFunc
	settings *config.Settings
	mapper   *dmxmap.Mapper
	sender   *infra_artnet.Sender
	listener *infra_monitor.Listener
	reloadMu sync.Mutex
}

func NewApp(settings *config.Settings) *App {
	return &App{
		settings: settings,
		mapper:   dmxmap.New(),
	}
}

func (a *App) Mapper() *dmxmap.Mapper {
	return a.mapper
}

// ListenAddr is the bound Art-Net address, nil before Start.
func (a *App) ListenAddr() *net.UDPAddr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// Reload re-reads the mapping files. A missing mappings.txt is logged and keeps
// the current channel assignments.
func (a *App) Reload() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	logging.LogInfo("App: loading mapping tables", "dir", a.settings.MappingDir)
	err := config.LoadTables(os.DirFS(a.settings.MappingDir), a.mapper)
	if err != nil {
		logging.LogWarn("App: channel assignments not loaded, keeping current ones", "error", err)
	}
	return err
}

// Start loads the tables and launches the pipeline goroutines.
func (a *App) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	logging.LogInfo("App: starting services")

	_ = a.Reload()

	rawPacketChannel := make(chan infra_monitor.RawArtNetPacket, 1000)
	frameChannel := make(chan *domain_artnet.DMXFrame, 1000)
	artnetQueue := make(chan domain_artnet.DMXFrame, 1000)

	listener, err := infra_monitor.NewListener(a.settings.ArtNet.ListenAddr, a.settings.ArtNet.ListenPort, rawPacketChannel)
	if err != nil {
		a.cancel()
		return err
	}
	a.listener = listener

	sender, err := infra_artnet.NewSender(a.outputIPs(), a.settings.ArtNet.OutputPort, a.settings.ArtNet.RefreshFrames)
	if err != nil {
		a.cancel()
		listener.Close()
		return fmt.Errorf("cannot start Art-Net sender: %w", err)
	}
	a.sender = sender

	monitor := app_monitor.NewService(rawPacketChannel, frameChannel)
	processor := app_processor.NewService(frameChannel, artnetQueue, a.mapper, a.settings.Channels, a.settings.Routes)

	listener.Start(a.ctx)
	monitor.Start(a.ctx)
	processor.Start(a.ctx)
	go sender.Run(a.ctx, artnetQueue)

	if a.settings.Simulate {
		if u, ok := a.firstInputUniverse(); ok {
			logging.LogInfo("App: test ramp enabled", "universe", u)
			simulator.RunRamp(a.ctx, frameChannel, u)
		}
	}

	logging.LogInfo("App: all services running")
	return nil
}

// Shutdown stops every goroutine; the sender closes its sockets on the way out.
func (a *App) Shutdown() {
	logging.LogInfo("App: shutting down")
	if a.cancel != nil {
		a.cancel()
	}
	logging.LogInfo("App: shutdown complete")
}

func (a *App) outputIPs() map[int]string {
	ips := make(map[int]string)
	for _, r := range a.settings.Routes {
		ips[r.Out] = r.IP
	}
	return ips
}

func (a *App) firstInputUniverse() (int, bool) {
	if len(a.settings.Routes) == 0 {
		return 0, false
	}
	ins := make([]int, 0, len(a.settings.Routes))
	for _, r := range a.settings.Routes {
		ins = append(ins, r.In)
	}
	sort.Ints(ins)
	return ins[0], true
}
