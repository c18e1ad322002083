package storage

import (
	"fmt"

	"lazorwallet/internal/domain/entity"
)

// CurrentSchemaVersion tags every snapshot written by this build.
const CurrentSchemaVersion = 2

// migrations are total functions keyed by the version they upgrade FROM.
// They run in sequence until the snapshot reaches CurrentSchemaVersion.
var migrations = map[int]func(snapshot) (snapshot, error){
	0: migrateV0toV1,
	1: migrateV1toV2,
}

func migrate(snap snapshot) (snapshot, error) {
	if snap.SchemaVersion > CurrentSchemaVersion {
		return snapshot{}, fmt.Errorf("snapshot schema version %d is newer than supported %d",
			snap.SchemaVersion, CurrentSchemaVersion)
	}
	for snap.SchemaVersion < CurrentSchemaVersion {
		step, ok := migrations[snap.SchemaVersion]
		if !ok {
			return snapshot{}, fmt.Errorf("no migration from schema version %d", snap.SchemaVersion)
		}
		next, err := step(snap)
		if err != nil {
			return snapshot{}, fmt.Errorf("migration from version %d failed: %w", snap.SchemaVersion, err)
		}
		snap = next
	}
	return snap, nil
}

// migrateV0toV1 upgrades the untagged legacy blob: the only change is the
// version tag itself.
func migrateV0toV1(snap snapshot) (snapshot, error) {
	snap.SchemaVersion = 1
	return snap, nil
}

// migrateV1toV2 backfills fields older blobs may lack: the fiat preference,
// the fixed conversion rate and non-nil collections.
func migrateV1toV2(snap snapshot) (snapshot, error) {
	if !snap.State.Fiat.Valid() {
		snap.State.Fiat = entity.FiatUSD
	}
	if snap.State.RateUSDToVND <= 0 {
		snap.State.RateUSDToVND = 27000
	}
	if snap.State.Tokens == nil {
		snap.State.Tokens = []entity.TokenHolding{}
	}
	if snap.State.Devices == nil {
		snap.State.Devices = []entity.Device{}
	}
	if snap.State.Apps == nil {
		snap.State.Apps = []entity.AppCard{}
	}
	if snap.State.Activity == nil {
		snap.State.Activity = []entity.Activity{}
	}
	snap.SchemaVersion = 2
	return snap, nil
}
