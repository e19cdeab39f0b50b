package katagami

import "go.uber.org/zap"

// logTranslation records the ambient diagnostics a translation pass
// produces even on success: which encoding was detected and which
// features the first executable PI activated. Grounded on the
// teacher's pack-wide use of structured logging for this kind of
// "decision the caller didn't ask to see but will want during
// debugging" signal (go.uber.org/zap, used throughout the corpus —
// see DESIGN.md's survey notes); pongo2 itself has no logger of its
// own, so the call sites and log keys here are new, not adapted from a
// teacher file.
func logTranslation(logger *zap.Logger, script *GeneratedScript) {
	logger.Debug("katagami: translated template",
		zap.String("name", script.Name),
		zap.String("encoding", script.Encoding),
		zap.Int("features", int(script.Features)),
	)
}

// logRenderError records a render failure before it is returned to the
// caller, so a long-lived Engine's logs carry every failing render
// even when the caller only checks the returned error.
func logRenderError(logger *zap.Logger, name string, err error) {
	logger.Warn("katagami: render failed",
		zap.String("name", name),
		zap.Error(err),
	)
}
