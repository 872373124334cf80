// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/memberhub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema sets up indexes as needed. The unique slug index on members is
// the backstop behind the slug reservation system; the compound indexes cover
// the two public listing orderings.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MemberHubMongoDatabase)
}
