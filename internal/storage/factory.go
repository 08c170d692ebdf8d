// -----------------------------------------------------------------------
// Last Modified: Monday, 1st September 2025
// -----------------------------------------------------------------------

package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/storage/badger"
	"github.com/twokomi/oneclick-reports-backend/internal/storage/sqlite"
)

// NewReportStorage creates the report store selected by config.Storage.Type.
func NewReportStorage(logger arbor.ILogger, config *common.Config) (interfaces.ReportStorage, error) {
	switch config.Storage.Type {
	case "sqlite":
		db, err := sqlite.NewDB(logger, &config.Storage.SQLite)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return sqlite.NewReportStorage(db, logger), nil
	case "badger":
		db, err := badger.NewDB(logger, &config.Storage.Badger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize badger storage: %w", err)
		}
		return badger.NewReportStorage(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Storage.Type)
	}
}
