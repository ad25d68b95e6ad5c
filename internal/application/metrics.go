package application

import "expvar"

// metrics is published under "users" on /debug/vars.
var metrics = expvar.NewMap("users")
