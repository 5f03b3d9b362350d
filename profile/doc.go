// Package profile describes the per-issuer page geometry that drives table
// reconstruction.
//
// A Profile names the statement's columns with their horizontal coordinate
// ranges, the date and amount grammars the issuer prints, and the markers
// that open and close the transaction table. Profiles are data: they are
// loaded from YAML, JSON or TOML files with viper and no issuer-specific
// logic lives in the pipeline.
//
// # Loading
//
//	reg, err := profile.LoadFile("profiles.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p, err := reg.Detect(firstPageText)
//
// A profile file holds a "profiles" map keyed by profile name:
//
//	profiles:
//	  bbva:
//	    keywords: ["BBVA MEXICO"]
//	    date_grammar: day-month
//	    start_marker: "Detalle de Movimientos"
//	    columns:
//	      - {name: date, min: 20, max: 62}
//	      - {name: description, min: 100, max: 330}
//	      - {name: debit, min: 330, max: 400}
package profile
