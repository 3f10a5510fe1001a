package engine

import (
	"context"
	"log/slog"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// applyTransitions runs the per-channel state machine for one pass.
//
// Every registry channel is visited, not only claimed ones, so that an
// Overridden -> Free release is never missed:
//
//	Free       + claimed   -> ledger current value, write target if different
//	Overridden + claimed   -> ledger untouched, write target if different
//	Overridden + unclaimed -> write original if different, delete ledger entry
//	Free       + unclaimed -> nothing
//
// Channels named by profiles but unknown to the registry are never written
// and never ledgered.
func (e *Engine) applyTransitions(ctx context.Context, effective map[string]float64, claimed map[string]bool, pass *model.Pass) error {
	known := make(map[string]bool)
	for _, ch := range e.registry.Channels() {
		known[ch] = true
		state := e.ledger.StateOf(ch)
		isClaimed := claimed[ch]

		switch {
		case isClaimed && !state.Overridden:
			current := e.readVolume(ctx, ch)
			if err := e.config.PutOriginal(ctx, ch, current); err != nil {
				return newStoreError("ledger original value", ch, err)
			}
			e.ledger[ch] = current
			slog.Debug("channel overridden",
				"channel", ch,
				"original", current,
				"target", effective[ch],
			)
			if err := e.writeIfChanged(ctx, pass, ch, current, effective[ch], model.WriteApply); err != nil {
				return err
			}

		case isClaimed && state.Overridden:
			current := e.readVolume(ctx, ch)
			if err := e.writeIfChanged(ctx, pass, ch, current, effective[ch], model.WriteUpdate); err != nil {
				return err
			}

		case !isClaimed && state.Overridden:
			if err := e.release(ctx, pass, ch, state.Original); err != nil {
				return err
			}
		}
	}

	return e.dropUnknown(ctx, known)
}

// restoreAll releases every ledgered channel. Used when triggers are
// disabled or the profile list is empty.
func (e *Engine) restoreAll(ctx context.Context, pass *model.Pass) error {
	known := make(map[string]bool)
	for _, ch := range e.registry.Channels() {
		known[ch] = true
	}

	for _, ch := range e.ledger.Channels() {
		if !known[ch] {
			continue
		}
		if err := e.release(ctx, pass, ch, e.ledger[ch]); err != nil {
			return err
		}
	}

	return e.dropUnknown(ctx, known)
}

// release performs Overridden -> Free: write the original back, then forget it.
// The ledger entry survives a failed write so the next pass retries.
func (e *Engine) release(ctx context.Context, pass *model.Pass, ch string, original float64) error {
	current := e.readVolume(ctx, ch)
	if err := e.writeIfChanged(ctx, pass, ch, current, original, model.WriteRestore); err != nil {
		return err
	}
	if err := e.config.DeleteOriginal(ctx, ch); err != nil {
		return newStoreError("delete ledger entry", ch, err)
	}
	delete(e.ledger, ch)
	slog.Debug("channel released", "channel", ch, "original", original)
	return nil
}

// dropUnknown removes ledger entries for channels the registry does not
// know. Such entries can only come from a ledger trusted from an earlier
// session; there is no channel to restore them to.
func (e *Engine) dropUnknown(ctx context.Context, known map[string]bool) error {
	for _, ch := range e.ledger.Channels() {
		if known[ch] {
			continue
		}
		if err := e.config.DeleteOriginal(ctx, ch); err != nil {
			return newStoreError("delete ledger entry", ch, err)
		}
		slog.Warn("dropping ledger entry for unknown channel",
			"channel", ch,
			"original", e.ledger[ch],
		)
		delete(e.ledger, ch)
	}
	return nil
}

// writeIfChanged writes target to the channel unless it already holds it.
func (e *Engine) writeIfChanged(ctx context.Context, pass *model.Pass, ch string, current, target float64, kind model.WriteKind) error {
	if current == target {
		return nil
	}
	if err := e.registry.WriteVolume(ctx, ch, target); err != nil {
		return newRegistryError("write volume", ch, err)
	}
	pass.Writes = append(pass.Writes, model.ChannelWrite{
		Channel: ch,
		From:    current,
		To:      target,
		Kind:    kind,
	})
	return nil
}

// readVolume reads a channel, treating any failure as full volume.
func (e *Engine) readVolume(ctx context.Context, ch string) float64 {
	v, err := e.registry.ReadVolume(ctx, ch)
	if err != nil {
		slog.Warn("channel read failed, assuming default volume",
			"channel", ch,
			"default", model.DefaultVolume,
			"error", err,
		)
		return model.DefaultVolume
	}
	return v
}
