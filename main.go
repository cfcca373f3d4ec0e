package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"roam/src-server/catalog"
	"roam/src-server/locale"
	"roam/src-server/mapview"
	"roam/src-server/metric"
	"roam/src-server/model"
	"roam/src-server/route"
	"roam/src-server/rsvp"
	"roam/src-server/share"
	"roam/src-server/shell"
	"roam/src-server/utils"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// seed the catalog, then load the immutable snapshot everything reads from
	start := time.Now()
	seeded, err := catalog.Seed(ctx, as.BunDB, as.Config.GetCatalogPath())
	if err != nil {
		slog.Error("can't seed catalog", "error", err)
		os.Exit(1)
	}
	select {
	case as.MetricChans.DatabaseWrite <- float64(time.Since(start).Microseconds()):
	default:
	}

	start = time.Now()
	cat, err := catalog.Load(ctx, as.BunDB)
	if err != nil {
		slog.Error("can't load catalog", "error", err)
		os.Exit(1)
	}
	select {
	case as.MetricChans.DatabaseRead <- float64(time.Since(start).Microseconds()):
	default:
	}
	slog.Info("catalog ready", "seeded", seeded, "loaded", cat.Len())

	locales, err := locale.LoadDir(as.Config.GetLocalesDir())
	if err != nil {
		slog.Error("can't load locale tables", "error", err)
		os.Exit(1)
	}
	slog.Info("locales ready", "codes", locales.Codes())

	view := mapview.NewSnapshotMap()
	app := &route.App{
		Location: as.Config.GetLocation(),
		Catalog:  cat,
		Locales:  locales,
		Shell:    shell.New(cat, view, as.Config.GetLocation(), time.Now, as.MetricChans.FilterApply),
		MapView:  view,
		Sender:   rsvp.NewIntakeSender(as.Config.GetIntakeURL(), as.MetricChans.RsvpDispatch),
		Share: &share.Service{
			Clipboard: &share.MemoryClipboard{},
			Notify: func(message string) {
				slog.Debug("share fallback", "message", message)
			},
		},
	}

	go metric.Init(as, cat.Len())

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Events(muxer, app)
		route.State(muxer, app)
		route.MapState(muxer, app)
		route.Rsvp(muxer, app)
		route.SPA(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	app.CloseFlows()
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}
