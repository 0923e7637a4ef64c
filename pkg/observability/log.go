package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug entries to a
// logger. The CLI installs it when running verbosely.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetSerializationHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) done(msg string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, blockType string, blockCount int) {
	h.logger.Debug("layout started", "type", blockType, "blocks", blockCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, blockType string, d time.Duration, err error) {
	h.done("layout finished", d, err, "type", blockType)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render started", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.done("render finished", d, err, "format", format, "bytes", size)
}

func (h *LogHooks) OnSave(id string, d time.Duration, err error) {
	h.done("serializer saved", d, err, "id", id)
}

func (h *LogHooks) OnLoad(id string, d time.Duration, err error) {
	h.done("serializer loaded", d, err, "id", id)
}

func (h *LogHooks) OnSkip(id string) {
	h.logger.Debug("state entry skipped", "id", id)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}
