package metric

import (
	"log/slog"
	"roam/src-server/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roam_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register roam_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("roam_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("roam_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("roam_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roam_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register roam_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("roam_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("roam_database_read_microsec metric unregistered")
				case false:
					slog.Warn("roam_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roam_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register roam_database_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("roam_database_write_microsec metric registered")
		databaseWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseWrite) {
				case true:
					slog.Debug("roam_database_write_microsec metric unregistered")
				case false:
					slog.Warn("roam_database_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseWrite:
				databaseWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseWrite.Set(0)
			}
		}
	}()
}

func filterApply(as *utils.AppState, clearTickerInterval *time.Duration) {
	filterApply := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roam_filter_apply_microsec",
		Help: "The latency of one filter recompute in microseconds",
	})
	good := true
	if err := prometheus.Register(filterApply); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register roam_filter_apply_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("roam_filter_apply_microsec metric registered")
		filterApply.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(filterApply) {
				case true:
					slog.Debug("roam_filter_apply_microsec metric unregistered")
				case false:
					slog.Warn("roam_filter_apply_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.FilterApply:
				filterApply.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				filterApply.Set(0)
			}
		}
	}()
}

func rsvpDispatch(as *utils.AppState, clearTickerInterval *time.Duration) {
	rsvpDispatch := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roam_rsvp_dispatch_microsec",
		Help: "The latency of one RSVP dispatch to the intake endpoint in microseconds",
	})
	good := true
	if err := prometheus.Register(rsvpDispatch); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register roam_rsvp_dispatch_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("roam_rsvp_dispatch_microsec metric registered")
		rsvpDispatch.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(rsvpDispatch) {
				case true:
					slog.Debug("roam_rsvp_dispatch_microsec metric unregistered")
				case false:
					slog.Warn("roam_rsvp_dispatch_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.RsvpDispatch:
				rsvpDispatch.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				rsvpDispatch.Set(0)
			}
		}
	}()
}

func catalogSize(size int) {
	catalogSize := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roam_catalog_size",
		Help: "How many events the catalog snapshot holds",
	})
	if err := prometheus.Register(catalogSize); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register roam_catalog_size metric", "error", err)
			return
		}
	}
	catalogSize.Set(float64(size))
}

func Init(as *utils.AppState, catalogLen int) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	filterApply(as, &clearTickerInterval)
	rsvpDispatch(as, &clearTickerInterval)
	catalogSize(catalogLen)
}
