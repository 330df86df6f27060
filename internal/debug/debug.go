package debug

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// GetLogger returns a singleton zap logger writing to a debug file.
// The same logger is handed to the MTProto client.
func GetLogger() *zap.Logger {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{filepath.Join(os.TempDir(), "tgexport-debug.log")}
		config.ErrorOutputPaths = config.OutputPaths
		l, err := config.Build()
		if err != nil {
			panic(err)
		}
		logger = l
	})
	return logger
}
