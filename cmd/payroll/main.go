/*
main.go - Offline payroll CLI

PURPOSE:
  Runs the engine over a shift-log file without a server or database.

COMMANDS:
  payroll calc  --profile p.toml --file log.txt [--year Y --month M] [--strict]
  payroll norm  --year Y --month M
  payroll parse "рез 08:00-20:00" [--date YYYY-MM-DD]

LOG FILE FORMAT:
  One entry per line, date first:
    2025-03-03 09:00-21:00
    2025-03-04 рез 08:00-20:00
    # comments and blank lines are skipped

SEE ALSO:
  - factory/settings.go: TOML profile schema
  - payroll/statement.go: Month aggregation
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
