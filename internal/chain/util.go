package chain

import "net/url"

// redactURL strips path, query and credentials, RPC providers tend to embed API keys there.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<invalid url>"
	}

	return u.Scheme + "://" + u.Host
}
