// Package services implements the driving port interfaces.
// Services compose the enrichment chain, the handler registry and the
// stores behind them; they hold no state of their own beyond
// configuration.
package services
