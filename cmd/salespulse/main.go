// Command salespulse runs the sales analytics pipeline from the terminal.
//
// Usage:
//
//	salespulse run                                   # built-in sample dataset
//	salespulse run --data ./exports -o pretty        # users.csv, transactions.csv, items.csv
//	salespulse run --data sales.xlsx --gender female --age-min 18 --age-max 35
//	salespulse run --data sales.sqlite --criteria spring.yaml -o csv --out table.csv
//	salespulse options --data sales.duckdb
//	salespulse generate --dest ./demo --format sqlite
//
// Settings not given as flags come from SALESPULSE_* environment variables
// or a .env file in the working directory.
package main

import "os"

func main() {
	os.Exit(Execute())
}
