package util

import (
	"net/http"
	"net/url"
)

// ProxyFunc picks a proxy per request scheme. Empty settings fall back to
// the HTTP_PROXY / HTTPS_PROXY / NO_PROXY environment.
func ProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		switch {
		case req.URL.Scheme == "https" && httpsProxy != "":
			return url.Parse(httpsProxy)
		case req.URL.Scheme == "http" && httpProxy != "":
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
