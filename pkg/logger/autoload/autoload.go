// Package autoload initializes the global logger from the LOG_*
// environment block. Blank-import it from main.
package autoload

import (
	configx "github.com/dermaluz/concierge/pkg/config"
	logx "github.com/dermaluz/concierge/pkg/logger"
)

func init() {
	conf, err := configx.New[logx.Config]("LOG")
	if err != nil {
		logx.Init()
		return
	}
	logx.Init(*conf)
}
