// Command notifier polls Radarr's health endpoint on a cron schedule and
// forwards new alerts to a Discord webhook.
//
// Usage:
//
//	notifier [serve]            run the poller, dispatcher and HTTP server
//	notifier check              query Radarr once and print the result
//	notifier validate-config    load and validate the configuration
//
// The configuration file is selected with --config (default config.json).
// Environment variables such as RADARR_URL and DISCORD_WEBHOOK_URL override
// file values.
package main
