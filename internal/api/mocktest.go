package api

import (
	"context"
	"io"
)

// GenerateMockTest asks the backend to build a downloadable mock test.
func (c *Client) GenerateMockTest(ctx context.Context, req MockTestRequest) (*MockTestResponse, error) {
	var out MockTestResponse
	if err := c.postJSON(ctx, "generate mock test", "/mock-test/generate", req, mockTestSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserMockTests lists the mock tests generated by userID.
func (c *Client) UserMockTests(ctx context.Context, userID string) ([]UserMockTest, error) {
	if userID == "" {
		return nil, ErrMissingID
	}
	var out []UserMockTest
	if err := c.getJSON(ctx, "fetch mock tests", "/mock-test/user/"+pathID(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadMockTest streams the PDF of testID to w and returns the number of
// bytes written.
func (c *Client) DownloadMockTest(ctx context.Context, testID string, w io.Writer) (int64, error) {
	if testID == "" {
		return 0, ErrMissingID
	}
	return c.stream(ctx, "download mock test", "/mock-test/download/"+pathID(testID), w)
}

// MockTestDownloadURL returns the absolute download URL for testID.
func (c *Client) MockTestDownloadURL(testID string) string {
	return c.endpoint("/mock-test/download/"+pathID(testID), nil)
}
