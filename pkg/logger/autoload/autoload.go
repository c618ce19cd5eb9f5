// Package autoload initializes the global logger from the LOGGER_* env
// variables as a side effect of being imported.
package autoload

import (
	"github.com/Mannyasoh/ai-ecommerce-chatbot/pkg/config"
	logx "github.com/Mannyasoh/ai-ecommerce-chatbot/pkg/logger"
)

func init() {
	conf := config.MustNew[logx.Config]("LOGGER")
	logx.Init(*conf)
}
