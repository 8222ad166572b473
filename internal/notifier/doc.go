// Package notifier delivers alerts for newly matched agenda events.
//
// Channels include SMTP email with prefilled registration mailto links,
// Telegram bot messages and JSON webhooks. A dry-run notifier prints the
// alert instead of delivering it.
package notifier
