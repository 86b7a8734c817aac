package site

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
	"git.home.luguber.info/inful/labsite/internal/linkverify"
	"git.home.luguber.info/inful/labsite/internal/logfields"
)

func stageVerifyLinks(ctx context.Context, bs *BuildState) error {
	if !bs.Config.VerifyLinksEnabled() {
		return nil
	}

	broken, err := linkverify.NewVerifier(bs.Config.HTMLTargetDir).VerifySite(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageVerifyLinks, err)
		}
		return newWarnStageError(StageVerifyLinks, err)
	}
	bs.Broken = broken
	bs.Report.BrokenLinks = broken
	bs.recorder.AddBrokenLinks(len(broken))

	for _, b := range broken {
		slog.Warn("Broken link",
			logfields.Path(b.Page),
			logfields.Link(b.Target),
			slog.String("text", b.Text),
			slog.String("reason", b.Reason))
	}
	if len(broken) > 0 {
		return errors.ValidationError(fmt.Sprintf("%d broken links", len(broken))).
			WithContext("path", bs.Config.HTMLTargetDir).
			Warning().
			Build()
	}
	return nil
}
