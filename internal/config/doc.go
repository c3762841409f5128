// Package config provides configuration management for the returns analyzer.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values from Default() (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern RETURNS_<SECTION>_<FIELD>:
//
//	RETURNS_LOGGING_LEVEL=debug
//	RETURNS_INPUT_FORWARD_FILE=data/forward.xlsx
//	RETURNS_ANALYSIS_WORKERS=8
//	RETURNS_EXPORT_FORMATS=csv,json
//	RETURNS_SERVER_ADDR=127.0.0.1:8090
//
// # Example File
//
//	input:
//	  forward_file: data/forward_report.csv
//	  orders_file: data/orders.xlsx
//	  columns:
//	    left_key: sub_order_num
//	    right_key: Sub Order No
//	analysis:
//	  categories_file: configs/categories.yaml
//	  workers: 4
//	export:
//	  formats: [csv, xlsx]
//
// Validation uses go-playground/validator struct tags; any failure is
// returned as a CONFIG AppError.
package config
