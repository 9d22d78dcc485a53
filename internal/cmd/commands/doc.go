// Package commands contains the Cobra commands of the uidgen CLI.
//
// Commands:
//
//	uidgen describe                          # layout and capacity table
//	uidgen generate --count 21 --format dec  # demo loop printing IDs
//	uidgen decompose <id>...                 # split IDs into their fields
//	uidgen bench --workers 8 --count 1000000 # concurrent throughput run
//	uidgen verify --count 100000             # record IDs in the ledger and audit them
//
// Every command reads configuration from --config (JSON or YAML), then the
// UIDGEN_* environment, then flags.
package commands
