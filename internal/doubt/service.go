package doubt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	util "github.com/saulo-duarte/mockprep/internal/utils"
)

type Service interface {
	Create(ctx context.Context, in DoubtInput) (model.Doubt, error)
	ListMine(ctx context.Context) ([]model.Doubt, error)
	List(ctx context.Context, status model.DoubtStatus, subject string) ([]model.Doubt, error)
	Assign(ctx context.Context, id string, in AssignInput) (model.Doubt, error)
	ListAssigned(ctx context.Context) ([]model.Doubt, error)
	Answer(ctx context.Context, id string, in AnswerInput) (model.Doubt, error)
}

type doubtService struct {
	client  *transport.Client
	store   *store.Store
	slots   *request.Registry
	session *auth.Holder
	now     func() time.Time
}

func NewService(client *transport.Client, st *store.Store, slots *request.Registry, session *auth.Holder) Service {
	return &doubtService{client: client, store: st, slots: slots, session: session, now: time.Now}
}

func (s *doubtService) requireRole(role model.Role) error {
	sess, err := s.session.Require()
	if err != nil {
		return err
	}
	if sess.Role != role {
		return auth.ErrForbidden
	}
	return nil
}

func (s *doubtService) Create(ctx context.Context, in DoubtInput) (model.Doubt, error) {
	log := config.WithContext(ctx)

	if err := s.requireRole(model.RoleStudent); err != nil {
		return model.Doubt{}, err
	}
	in.Text = strings.TrimSpace(in.Text)
	in.Subject = strings.TrimSpace(in.Subject)
	if err := util.Validate(in); err != nil {
		return model.Doubt{}, err
	}

	d, err := request.Run(ctx, s.slots.Slot(SlotCreate),
		func(ctx context.Context) (model.Doubt, error) {
			return s.mutate(func(out *doubtResponse) error {
				return s.client.PostJSON(ctx, "/api/student/doubts", in, out)
			})
		},
		func(d model.Doubt) { s.store.SyncDoubt(store.ScopeStudent, d) },
		nil,
	)
	if err != nil {
		log.WithError(err).Error("Failed to submit doubt")
		return model.Doubt{}, err
	}

	log.WithField("doubt_id", d.ID).Info("Doubt submitted")
	return d, nil
}

func (s *doubtService) ListMine(ctx context.Context) ([]model.Doubt, error) {
	if err := s.requireRole(model.RoleStudent); err != nil {
		return nil, err
	}
	return s.list(ctx, SlotMine, store.ScopeStudent, "/api/student/doubts", nil)
}

func (s *doubtService) List(ctx context.Context, status model.DoubtStatus, subject string) ([]model.Doubt, error) {
	if err := s.requireRole(model.RoleAdmin); err != nil {
		return nil, err
	}
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", util.ErrInvalidInput, status)
	}

	params := url.Values{}
	if status != "" {
		params.Set("status", string(status))
	}
	if subject != "" {
		params.Set("subject", subject)
	}
	return s.list(ctx, SlotAdminList, store.ScopeAdmin, "/api/admin/doubts", params)
}

func (s *doubtService) ListAssigned(ctx context.Context) ([]model.Doubt, error) {
	if err := s.requireRole(model.RoleInstructor); err != nil {
		return nil, err
	}
	return s.list(ctx, SlotInstructorList, store.ScopeInstructor, "/api/instructor/doubts", nil)
}

// Assign is rejected locally when the cached copy is already answered or
// the requested status cannot follow the current one.
func (s *doubtService) Assign(ctx context.Context, id string, in AssignInput) (model.Doubt, error) {
	log := config.WithContext(ctx).WithField("doubt_id", id)

	if err := s.requireRole(model.RoleAdmin); err != nil {
		return model.Doubt{}, err
	}
	if id == "" {
		return model.Doubt{}, fmt.Errorf("%w: doubt id required", util.ErrInvalidInput)
	}
	if in.InstructorID == "" && in.Status == "" {
		return model.Doubt{}, ErrEmptyAssignment
	}
	if err := util.Validate(in); err != nil {
		return model.Doubt{}, err
	}

	target := in.Status
	if target == "" {
		target = model.DoubtAssigned
	}
	if err := s.guard(id, target); err != nil {
		log.WithError(err).Warn("Assignment rejected")
		return model.Doubt{}, err
	}

	d, err := request.Run(ctx, s.slots.Slot(SlotAssign),
		func(ctx context.Context) (model.Doubt, error) {
			return s.mutate(func(out *doubtResponse) error {
				return s.client.PutJSON(ctx, "/api/admin/doubts/"+url.PathEscape(id)+"/assign", in, out)
			})
		},
		func(d model.Doubt) { s.store.SyncDoubt(store.ScopeAdmin, d) },
		nil,
	)
	if err != nil {
		log.WithError(err).Error("Failed to assign doubt")
		return model.Doubt{}, err
	}

	log.WithField("status", d.Status).Info("Doubt assigned")
	return d, nil
}

func (s *doubtService) Answer(ctx context.Context, id string, in AnswerInput) (model.Doubt, error) {
	log := config.WithContext(ctx).WithField("doubt_id", id)

	if err := s.requireRole(model.RoleInstructor); err != nil {
		return model.Doubt{}, err
	}
	if id == "" {
		return model.Doubt{}, fmt.Errorf("%w: doubt id required", util.ErrInvalidInput)
	}
	in.Answer = strings.TrimSpace(in.Answer)
	if err := util.Validate(in); err != nil {
		return model.Doubt{}, err
	}
	if err := s.guard(id, model.DoubtAnswered); err != nil {
		log.WithError(err).Warn("Answer rejected")
		return model.Doubt{}, err
	}

	d, err := request.Run(ctx, s.slots.Slot(SlotAnswer),
		func(ctx context.Context) (model.Doubt, error) {
			d, err := s.mutate(func(out *doubtResponse) error {
				return s.client.PutJSON(ctx, "/api/instructor/doubts/"+url.PathEscape(id)+"/answer", in, out)
			})
			if err != nil {
				return d, err
			}
			if d.AnsweredAt == nil {
				d.AnsweredAt = util.NewTimestamp(s.now())
			}
			return d, nil
		},
		func(d model.Doubt) { s.store.SyncDoubt(store.ScopeInstructor, d) },
		nil,
	)
	if err != nil {
		log.WithError(err).Error("Failed to answer doubt")
		return model.Doubt{}, err
	}

	log.Info("Doubt answered")
	return d, nil
}

// guard checks the cached copy, if any. Unknown ids are left to the backend.
func (s *doubtService) guard(id string, to model.DoubtStatus) error {
	cur, ok := s.store.FindDoubt(id)
	if !ok {
		return nil
	}
	if cur.Status == model.DoubtAnswered {
		return ErrDoubtClosed
	}
	if !cur.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, cur.Status, to)
	}
	return nil
}

func (s *doubtService) mutate(send func(*doubtResponse) error) (model.Doubt, error) {
	var out doubtResponse
	if err := send(&out); err != nil {
		return model.Doubt{}, err
	}
	if out.Doubt == nil || out.Doubt.ID == "" {
		return model.Doubt{}, ErrMissingDoubt
	}
	return *out.Doubt, nil
}

func (s *doubtService) list(ctx context.Context, slot string, scope store.Scope, path string, params url.Values) ([]model.Doubt, error) {
	list, err := request.Run(ctx, s.slots.Slot(slot),
		func(ctx context.Context) ([]model.Doubt, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, path, params, &raw); err != nil {
				return nil, err
			}
			return transport.DecodeList[model.Doubt](raw, "doubts")
		},
		func(list []model.Doubt) { s.store.ReplaceDoubts(scope, list) },
		func(error) { s.store.ReplaceDoubts(scope, nil) },
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("scope", scope).Warn("Failed to list doubts")
		return nil, err
	}
	return list, nil
}
