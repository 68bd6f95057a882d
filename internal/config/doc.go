// Package config loads ClassPulse configuration.
//
// # Configuration Sources
//
// Values are layered in this order, later sources winning:
//
//	1. Default()
//	2. A YAML file (explicit path, $CLASSPULSE_CONFIG, or config.yaml)
//	3. CLASSPULSE_* environment variables
//
// Environment variables follow the struct nesting, for example
// CLASSPULSE_SERVER_PORT=9000 or
// CLASSPULSE_ANALYSIS_COLUMNS_TOTAL_SCORE=实际班级总分,总分.
//
// # Column Mapping
//
// Input sheets are matched against ColumnMapping by exact column name. The
// entity and total_score fields are required; Resolve returns a
// MissingColumnError naming the field and the names it accepted.
//
// # Example
//
//	analysis:
//	  imputation: zero
//	  top_n: 5
//	  bottom_n: 5
//	  columns:
//	    entity: [班级]
//	    total_score: [实际班级总分, 总分]
package config
