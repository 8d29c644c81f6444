// Package config provides configuration parsing for Trellis projects.
//
// The configuration is stored in trellis.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-app",
//	  "routes": "app/routes",
//	  "generate": {
//	    "output": "app/routes_gen.go",
//	    "package": "app"
//	  },
//	  "manifest": {
//	    "output": "routes.manifest.json",
//	    "bucket": "my-manifests"
//	  },
//	  "dev": {
//	    "port": 3000,
//	    "hotReload": true,
//	    "debounceMs": 100,
//	    "ignore": ["*_test.go"]
//	  },
//	  "check": {
//	    "allowOrphanLayouts": false
//	  }
//	}
//
// All fields are optional; missing fields take the defaults shown by New.
// Path fields resolve relative to the directory containing trellis.json.
package config
