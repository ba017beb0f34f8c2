package mocktest

import "github.com/saulo-duarte/mockprep/internal/model"

const (
	SlotList    = "mocktests.list"
	SlotGet     = "mocktests.get"
	SlotPublish = "mocktests.publish"
	SlotDelete  = "mocktests.delete"
)

// ListQuery is forwarded to the backend search as ?q=&category=.
type ListQuery struct {
	Query    string
	Category string
}

type publishRequest struct {
	IsPublished bool `json:"isPublished"`
}

type publishResponse struct {
	MockTest *model.MockTest `json:"mocktest"`
}
