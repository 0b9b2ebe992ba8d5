// Package rtc builds the ICE server list handed to browsers that use the
// relay for WebRTC signalling. The relay never terminates media itself.
package rtc

import (
	"fmt"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

const defaultSTUN = "stun:stun.l.google.com:19302"

// ICEServers validates urls and groups them into webrtc ICE servers.
// STUN urls share one entry; TURN urls share another carrying the
// credentials. An empty list falls back to a public STUN server.
func ICEServers(urls []string, username, credential string) ([]webrtc.ICEServer, error) {
	if len(urls) == 0 {
		urls = []string{defaultSTUN}
	}

	var stunURLs, turnURLs []string
	for _, raw := range urls {
		uri, err := stun.ParseURI(raw)
		if err != nil {
			return nil, fmt.Errorf("ice server %q: %w", raw, err)
		}
		switch uri.Scheme {
		case stun.SchemeTypeTURN, stun.SchemeTypeTURNS:
			turnURLs = append(turnURLs, raw)
		default:
			stunURLs = append(stunURLs, raw)
		}
	}

	var servers []webrtc.ICEServer
	if len(stunURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: stunURLs})
	}
	if len(turnURLs) > 0 {
		if username == "" || credential == "" {
			return nil, fmt.Errorf("turn servers %v need turn_username and turn_credential", turnURLs)
		}
		servers = append(servers, webrtc.ICEServer{
			URLs:       turnURLs,
			Username:   username,
			Credential: credential,
		})
	}
	return servers, nil
}
