// Package config provides configuration management for rl.
//
// Configuration is loaded and merged in the following order, with later
// sources overriding earlier ones:
//
//  1. Default Configuration (embedded in binary)
//
//  2. User Configuration (~/.config/rl/config.yaml)
//     - User-specific settings that apply everywhere
//
//  3. Project Configuration (./.rl/config.yaml)
//     - Project-specific settings, shareable via version control
//
//  4. Environment variables (RUNLOOP_API_KEY, RUNLOOP_ENV)
//
// The configuration file uses YAML format:
//
//	apiKey: "ak_..."
//	env: "prod"
//	dashboardUrl: "https://platform.runloop.ai"
//	browse:
//	  pageSize: 20
//	  refreshSeconds: 5
//	ssh:
//	  keyDir: "~/.runloop/ssh_keys"
//	  waitTimeoutSeconds: 180
//	  pollIntervalSeconds: 3
package config
