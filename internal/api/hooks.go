package api

import "context"

// registerHooks binds the recurring update checks to the scheduler so the
// cached update transients read by the health and core routes stay fresh.
func registerHooks(domain *Domain) {
	domain.Scheduler.Keep("twicedaily", "wp_version_check", func(ctx context.Context, args []any) error {
		_, err := domain.Core.CheckUpdates(ctx)
		return err
	})
	domain.Scheduler.Keep("twicedaily", "wp_update_plugins", func(ctx context.Context, args []any) error {
		_, err := domain.Plugins.CheckUpdates(ctx)
		return err
	})
	domain.Scheduler.Keep("twicedaily", "wp_update_themes", func(ctx context.Context, args []any) error {
		_, err := domain.Themes.CheckUpdates(ctx)
		return err
	})
}
