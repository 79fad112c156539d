package clients

import "time"

const (
	CONNECT_TIMEOUT        = 3 * time.Second
	OPENAI_REQUEST_TIMEOUT = 60 * time.Second
	USER_AGENT             = "reviewlens-client/1.0 (+https://github.com/spacesedan/reviewlens)"
)
