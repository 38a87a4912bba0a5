package dto

// FeedQuery GET /feed 参数
type FeedQuery struct {
	Mode        string `form:"mode"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	ContentType string `form:"contentType"`
	Topic       string `form:"topic"`
}

type FeedDTO struct {
	Mode    string        `json:"mode,omitempty"`
	Items   []*ContentDTO `json:"items"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Total   int64         `json:"total"`
	HasMore bool          `json:"hasMore"`
}
