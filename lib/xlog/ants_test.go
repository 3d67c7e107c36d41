package xlog

import (
	"sync"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestAntsXLogger_ParentLogLevelChanged(t *testing.T) {
	var logger *AntsXLogger
	logger.Printf("test %d", 123)
	NewAntsXLogger(nil).Printf("test %d", 123)

	parentLogger, buf := newBufferedXLogger(t, LogLevelDebug)
	logger = NewAntsXLogger(parentLogger)
	parentLogger.IncreaseLogLevel(zapcore.InfoLevel)
	logger.Printf("test %d", 1)
	parentLogger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Printf("test %d", 2)
	_ = parentLogger.Sync()

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "test 2", entries[0]["msg"])
	require.Equal(t, "Ants", entries[0]["component"])
}

func TestAntsXLogger_AsPoolLogger(t *testing.T) {
	parentLogger, _ := newBufferedXLogger(t, LogLevelDebug)
	pool, err := ants.NewPool(2, ants.WithLogger(NewAntsXLogger(parentLogger)))
	require.NoError(t, err)
	defer pool.Release()

	wg := sync.WaitGroup{}
	wg.Add(4)
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(wg.Done))
	}
	wg.Wait()
}
