// Package config opens database references described by rtdb profile files.
//
// A profile file lists named databases:
//
//	default: prod
//	profiles:
//	  prod:
//	    baseUrl: https://project.example.com
//	    jsonSuffix: true
//	    timeout: 10s
//	    headers:
//	      Authorization: "Bearer {{RTDB_TOKEN}}"
//	    schemas:
//	      "users/*": schemas/user.json
//
// {{NAME}} placeholders are replaced from the environment when the file is
// loaded. Schema files are resolved relative to the profile file.
//
// Basic Usage:
//
//	root, err := config.Open("rtdb.yaml", "prod")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := root.Path("users/42").Get(ctx)
package config
