package common

import (
	logging "github.com/ipfs/go-log/v2"
)

// Logger is the module's named go-log logger. The library packages do not
// log; their error kinds are returned values. cmd/camshoupdemo uses Logger
// to report the run, including a failed proof verification or decryption.
var Logger = logging.Logger("camshoup")
