package options

import (
	"github.com/jessevdk/go-flags"
)

var Opts struct {
	Host           string         `long:"host" description:"the IP to listen on" default:"0.0.0.0" env:"HOST"`
	Port           int            `long:"port" description:"the UDP port to listen on" default:"12000" env:"PORT"`
	BufSz          int            `long:"bufsize" description:"Read buffer size in bytes, larger datagrams are truncated" default:"1024"`
	SockRcvBuf     int            `long:"sockrcvbuf" description:"Kernel socket receive buffer in bytes, 0 for kernel default" default:"0"`
	ReuseAddr      bool           `long:"reuseaddr" description:"Set SO_REUSEADDR before bind"`
	Logfile        flags.Filename `long:"logfile" description:"Log file path, derived from hostname when empty" env:"LOGFILE"`
	LogLevel       string         `long:"loglevel" description:"One of debug,info,error,warning,notice,critical,emergency,alert" default:"debug"`
	Prometheus     bool           `short:"p" long:"prometheus" description:"Run prometheus thread"`
	PrometheusPort int            `long:"prometheus-port" description:"the port for prometheus exposition" default:"8092"`
	Version        bool           `short:"v" long:"version" description:"Show dgramd version"`
}
