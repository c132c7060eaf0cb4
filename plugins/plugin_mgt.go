package plugins

import (
	"github.com/coschain/cosvault/iservices"
	"github.com/coschain/cosvault/node"
)

// RegisterSQLServices registers the SQL backed plugins enabled in cfg.
func RegisterSQLServices(app *node.Node, cfg *node.Config) {
	if !cfg.SQL.Enabled {
		return
	}
	_ = app.Register(iservices.OpLogServiceName, func(ctx *node.ServiceContext) (node.Service, error) {
		return NewOpLogService(ctx, cfg.SQL, app.Log)
	})
}
