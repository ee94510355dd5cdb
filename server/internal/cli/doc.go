// Package cli implements the launchdash command line.
//
//	launchdash serve   [--config config.yaml] [--data src] [--ui-dir dir]
//	launchdash summary [--data src]
//	launchdash pie     [--data src] [--site s]
//	launchdash scatter [--data src] [--site s] [--low kg] [--high kg]
//	launchdash views   [--data src] [--site s] [--low kg] [--high kg]
//	launchdash render  pie|scatter --out file.{png,svg} [selection flags]
//
// Every command accepts --format text|json. Commands that read a launch
// table exit with code 1 when it cannot be loaded and code 2 on bad flags.
package cli
