package fixture

// Set is the content of one fixture file.
//
//	routes:
//	  - host: api.example.com
//	    path: /users
//	    method: POST
//	    query: {dryRun: "true"}
//	    body: {"user.name": "alice"}
//	    response:
//	      status: 201
//	      headers: {Content-Type: application/json}
//	      json: {id: 7}
type Set struct {
	Routes []Route `yaml:"routes"`
}

// Route is one canned answer. Host empty means the page origin's host and
// Method empty matches any method. Query lists the query parameters a request
// must carry, by first value. Body maps gjson paths into the JSON request
// body to the value found there.
type Route struct {
	Host     string            `yaml:"host"`
	Path     string            `yaml:"path"`
	Method   string            `yaml:"method"`
	Query    map[string]string `yaml:"query"`
	Body     map[string]string `yaml:"body"`
	Response Response          `yaml:"response"`
}

// Response is what a matching route answers. JSON, when present, is
// marshaled as the body and takes precedence over Body.
type Response struct {
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`
	JSON    any               `yaml:"json"`
}

// Script is a list of requests replayed in order against a registry.
type Script struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	Body    *string           `yaml:"body"`
	// Sync opens the request synchronously.
	Sync bool `yaml:"sync"`
}
