/*
Package config manages configuration parsing and validation for patchrc.

	            +-------------+
	            |   Config    |
	            | (Rules)     |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   YAML    |           |   HCL   |
	| Parser    |           | Parser  |
	+-----------+           +---------+

🎯 Purpose:
- Loads target globs and replacement rules from a config file
- Validates rule strategies before anything touches a document
- Provides type-safe rule access to the locate/patch pipeline
- Supports multiple config formats behind one Parser interface

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates strategy fields (pattern compiles, line ranges sane)
4. Hands validated rules to the operation runner

📝 Design Philosophy:
A rule is pure data. Which strategy locates its region, and what text goes in,
is decided here once; the engine downstream never re-interprets the config.
Both formats decode into the same Rule struct so a YAML config and an HCL
config with the same fields behave identically.
*/
package config
