package service

import (
	"github.com/MKhiriev/go-budget-keeper/internal/adapter"
	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
)

type ClientServices struct {
	Records    ClientRecordService
	Resolver   ConflictResolver
	Engine     SyncEngine
	SyncJob    ClientSyncJob
	Probe      ConnectivityProbe
	FeedWorker ChangeFeedWorker
}

func NewClientServices(stores *store.ClientStorages, remote adapter.RemoteStore, feed adapter.ChangeFeed, syncCfg config.ClientSync, logger *logger.Logger) *ClientServices {
	resolver := NewConflictResolver()
	engine := NewSyncEngine(stores.RecordCache, stores.PendingChangeQueue, remote, resolver, syncCfg, logger)

	return &ClientServices{
		Records:    NewClientRecordService(stores.RecordCache, syncCfg.ScopeID, logger),
		Resolver:   resolver,
		Engine:     engine,
		SyncJob:    NewClientSyncJob(engine, syncCfg.Interval),
		Probe:      NewConnectivityProbe(remote, engine, 0, logger),
		FeedWorker: NewChangeFeedWorker(feed, engine, logger),
	}
}
