package export

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/malonaz/tgexport/internal/catalog"
	"github.com/malonaz/tgexport/internal/gateway"
)

// progressInterval is the checkpoint cadence of the pipeline.
const progressInterval = 500

// TransferError signals that retrieval failed mid-stream. The export is
// aborted: no partial bundle is ever returned.
type TransferError struct {
	Err error
}

// Error implements the error interface.
func (e *TransferError) Error() string {
	return fmt.Sprintf("transferring messages: %v", e.Err)
}

// Unwrap returns the underlying retrieval error.
func (e *TransferError) Unwrap() error { return e.Err }

// MessageSource is the slice of the gateway the pipeline consumes.
type MessageSource interface {
	Messages(peer gateway.Peer) gateway.MessageIterator
}

// Pipeline drives a full dialog export: paginated retrieval, streaming
// normalization, and a final chronological sort.
type Pipeline struct {
	source   MessageSource
	self     *gateway.Identity
	selfName string
	progress func(count int)
}

// NewPipeline instantiates a pipeline. progress may be nil; when set it is
// invoked every 500 accumulated records, for reporting only.
func NewPipeline(source MessageSource, self *gateway.Identity, progress func(count int)) *Pipeline {
	return &Pipeline{
		source:   source,
		self:     self,
		selfName: catalog.DisplayName(self.FirstName, self.LastName, self.Username, self.ID),
		progress: progress,
	}
}

// Export downloads the dialog's full history and assembles a Bundle whose
// records are sorted by timestamp ascending, regardless of the order the
// gateway delivered them in. On any retrieval fault it returns a
// *TransferError and discards everything accumulated so far.
func (p *Pipeline) Export(ctx context.Context, dialog *catalog.DialogSummary) (*Bundle, error) {
	iterator := p.source.Messages(dialog.Peer)

	var records []*MessageRecord
	for iterator.Next(ctx) {
		records = append(records, Normalize(iterator.Value(), p.self, p.selfName, dialog.Name))
		if p.progress != nil && len(records)%progressInterval == 0 {
			p.progress(len(records))
		}
	}
	if err := iterator.Err(); err != nil {
		return nil, &TransferError{Err: err}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})

	return &Bundle{
		Info: &Info{
			ExportedAt:    time.Now().Format(TimeLayout),
			TotalMessages: len(records),
			Participants: []*Participant{
				{Name: p.selfName, Username: p.self.Username, UserID: p.self.ID, IsMe: true},
				{Name: dialog.Name, Username: dialog.Username, UserID: dialog.UserID, IsMe: false},
			},
		},
		Messages: records,
	}, nil
}
