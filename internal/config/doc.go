// Package config loads vdirective.yaml.
//
// # Configuration File Structure
//
//	templates:
//	  dir: ./templates
//	  ext: .html
//	  watch: true
//	render:
//	  policy: strict      # strict | lenient
//	  pretty: false
//	  sanitize: true      # run v-html through bluemonday
//	  cache_size: 256
//	server:
//	  addr: ${VDIRECTIVE_ADDR:-localhost:8080}
//	  metrics_path: /metrics
//	log:
//	  level: info
//
// ${VAR} and ${VAR:-default} references are replaced from the environment
// before parsing. Relative paths resolve against the file's directory.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Templates:", cfg.TemplatesPath())
package config
