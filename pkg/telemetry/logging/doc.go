// Package logging builds the structured logger used by every modlint
// component.
//
// Loggers are plain *slog.Logger values passed down explicitly. The handler
// returned by New adds the lint pass fields stored in the record's context,
// so a rule fault logged deep inside the engine still carries the pass ID and
// document path:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "text"})
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithPassID(ctx, passID)
//	ctx = logging.WithPath(ctx, doc.Path)
//	logger.WarnContext(ctx, "rule failed", "rule", id, "error", err)
//
// Logs go to stderr by default; stdout is reserved for findings.
package logging
