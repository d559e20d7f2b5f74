package lifecycle

import (
	"testing"
	"time"

	"github.com/resolvedesk/backend/internal/models"
)

var (
	testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	admin    = Actor{ID: "u-admin", Name: "Charlie Admin", Role: models.RoleAdmin}
	customer = Actor{ID: "u-cust", Name: "Alice Customer", Role: models.RoleCustomer}

	juniorLevel = models.LevelJunior
	seniorLevel = models.LevelSenior
	execLevel   = models.LevelExecutive
)

func testDirectory() Directory {
	users := map[string]models.User{
		"e-jun":  {ID: "e-jun", Name: "Diana Junior", Role: models.RoleEngineer, EngineerLevel: &juniorLevel},
		"e-sen":  {ID: "e-sen", Name: "Edward Senior", Role: models.RoleEngineer, EngineerLevel: &seniorLevel},
		"e-exec": {ID: "e-exec", Name: "Fiona Executive", Role: models.RoleEngineer, EngineerLevel: &execLevel},
		"u-cust": {ID: "u-cust", Name: "Alice Customer", Role: models.RoleCustomer},
	}
	return DirectoryFunc(func(id string) (models.User, bool) {
		u, ok := users[id]
		return u, ok
	})
}

func engineerActor(id string) Actor {
	u, _ := testDirectory().UserByID(id)
	return Actor{ID: u.ID, Name: u.Name, Role: models.RoleEngineer, EngineerLevel: u.Level()}
}

func newComplaint(status models.ComplaintStatus) models.Complaint {
	return models.Complaint{
		ID:           "c-1",
		CustomerID:   "u-cust",
		CustomerName: "Alice Customer",
		Category:     models.CategoryProduct,
		Description:  "The new SuperWidget X is not turning on.",
		SubmittedAt:  testNow.Add(-48 * time.Hour),
		UpdatedAt:    testNow.Add(-48 * time.Hour),
		Status:       status,
		Priority:     models.PriorityMedium,
	}
}

func assignedComplaint(engineerID string) models.Complaint {
	c := newComplaint(models.StatusSubmitted)
	out, _, err := Apply(c, Action{Kind: ActionAssign, EngineerID: engineerID}, admin, testDirectory(), testNow)
	if err != nil {
		panic(err)
	}
	return out
}

func TestAssignFromSubmitted(t *testing.T) {
	c := newComplaint(models.StatusSubmitted)
	out, events, err := Apply(c, Action{Kind: ActionAssign, EngineerID: "e-jun"}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusAssigned {
		t.Fatalf("expected status Assigned, got %s", out.Status)
	}
	if out.AssignedTo == nil || *out.AssignedTo != "e-jun" {
		t.Fatalf("expected assignment to e-jun, got %+v", out.AssignedTo)
	}
	if out.CurrentHandlerLevel == nil || *out.CurrentHandlerLevel != models.LevelJunior {
		t.Fatalf("expected handler level Junior, got %+v", out.CurrentHandlerLevel)
	}
	if len(events) != 1 || events[0].Kind != EventAssigned {
		t.Fatalf("expected one assigned event, got %+v", events)
	}
	if len(out.InternalNotes) != len(c.InternalNotes)+1 {
		t.Fatalf("expected audit note appended")
	}
}

func TestAssignKeepsInProgressStatus(t *testing.T) {
	c := assignedComplaint("e-jun")
	c.Status = models.StatusInProgress

	out, _, err := Apply(c, Action{Kind: ActionAssign, EngineerID: "e-sen"}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusInProgress {
		t.Fatalf("expected status to stay In Progress, got %s", out.Status)
	}
	if *out.CurrentHandlerLevel != models.LevelSenior {
		t.Fatalf("expected handler level Senior, got %s", *out.CurrentHandlerLevel)
	}
}

func TestAssignSnapshotsTier(t *testing.T) {
	level := models.LevelJunior
	eng := models.User{ID: "e-x", Name: "Mutable Eng", Role: models.RoleEngineer, EngineerLevel: &level}
	dir := DirectoryFunc(func(id string) (models.User, bool) {
		if id == "e-x" {
			return eng, true
		}
		return models.User{}, false
	})

	out, _, err := Apply(newComplaint(models.StatusSubmitted), Action{Kind: ActionAssign, EngineerID: "e-x"}, admin, dir, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Promote the engineer after assignment; the snapshot must not move.
	level = models.LevelExecutive
	if *out.CurrentHandlerLevel != models.LevelJunior {
		t.Fatalf("expected snapshotted Junior level, got %s", *out.CurrentHandlerLevel)
	}
}

func TestAssignUnknownEngineer(t *testing.T) {
	_, _, err := Apply(newComplaint(models.StatusSubmitted), Action{Kind: ActionAssign, EngineerID: "nope"}, admin, testDirectory(), testNow)
	if err == nil || err.Kind != EntityNotFound {
		t.Fatalf("expected ENTITY_NOT_FOUND, got %v", err)
	}
}

func TestAssignNonEngineerUser(t *testing.T) {
	_, _, err := Apply(newComplaint(models.StatusSubmitted), Action{Kind: ActionAssign, EngineerID: "u-cust"}, admin, testDirectory(), testNow)
	if err == nil || err.Kind != EntityNotFound {
		t.Fatalf("expected ENTITY_NOT_FOUND for non-engineer, got %v", err)
	}
}

func TestUnassignRevertsToPending(t *testing.T) {
	c := assignedComplaint("e-jun")
	out, _, err := Apply(c, Action{Kind: ActionUnassign}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusPendingAssignment {
		t.Fatalf("expected Pending Assignment, got %s", out.Status)
	}
	if out.AssignedTo != nil || out.CurrentHandlerLevel != nil {
		t.Fatalf("expected assignment cleared, got %+v", out)
	}
}

func TestSetPriorityNoStatusEffect(t *testing.T) {
	c := assignedComplaint("e-jun")
	out, _, err := Apply(c, Action{Kind: ActionSetPriority, Priority: models.PriorityHigh}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Priority != models.PriorityHigh {
		t.Fatalf("expected priority High, got %s", out.Priority)
	}
	if out.Status != c.Status {
		t.Fatalf("expected status unchanged, got %s", out.Status)
	}
}

func TestSetPriorityInvalidValue(t *testing.T) {
	_, _, err := Apply(assignedComplaint("e-jun"), Action{Kind: ActionSetPriority, Priority: "Urgent"}, admin, testDirectory(), testNow)
	if err == nil || err.Kind != ValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestEngineerResolve(t *testing.T) {
	c := assignedComplaint("e-jun")
	out, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "Replaced the faulty unit"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusResolved {
		t.Fatalf("expected Resolved, got %s", out.Status)
	}
	if out.ResolvedAt == nil || !out.ResolvedAt.Equal(testNow) {
		t.Fatalf("expected resolvedAt=%v, got %+v", testNow, out.ResolvedAt)
	}
	if out.ResolutionDetails == nil || *out.ResolutionDetails != "Replaced the faulty unit" {
		t.Fatalf("expected resolution details recorded")
	}
}

func TestEngineerResolveDoesNotOverwriteResolvedAt(t *testing.T) {
	c := assignedComplaint("e-jun")
	first, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "done"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	later := testNow.Add(time.Hour)
	second, _, err := Apply(first, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "still done"}, engineerActor("e-jun"), testDirectory(), later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.ResolvedAt.Equal(testNow) {
		t.Fatalf("expected original resolvedAt preserved, got %v", second.ResolvedAt)
	}
}

func TestEngineerUnresolvedClearsResolvedAt(t *testing.T) {
	c := assignedComplaint("e-jun")
	resolved, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "done"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _, err := Apply(resolved, Action{Kind: ActionUpdateStatus, Status: models.StatusUnresolved, Details: "needs senior input"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusUnresolved {
		t.Fatalf("expected Unresolved, got %s", out.Status)
	}
	if out.ResolvedAt != nil {
		t.Fatalf("expected resolvedAt cleared, got %v", out.ResolvedAt)
	}
}

func TestEngineerUnresolvedRequiresDetails(t *testing.T) {
	c := assignedComplaint("e-jun")
	_, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusUnresolved}, engineerActor("e-jun"), testDirectory(), testNow)
	if err == nil || err.Kind != ValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestEngineerCannotUseAdminStatuses(t *testing.T) {
	c := assignedComplaint("e-jun")
	for _, s := range []models.ComplaintStatus{models.StatusClosed, models.StatusEscalated, models.StatusAssigned, models.StatusReopened} {
		_, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: s}, engineerActor("e-jun"), testDirectory(), testNow)
		if err == nil || err.Kind != InvalidTransition {
			t.Fatalf("status %s: expected INVALID_TRANSITION, got %v", s, err)
		}
	}
}

func TestEngineerLockedOutOfClosedAndEscalated(t *testing.T) {
	for _, s := range []models.ComplaintStatus{models.StatusClosed, models.StatusEscalated} {
		c := assignedComplaint("e-jun")
		c.Status = s
		_, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusInProgress}, engineerActor("e-jun"), testDirectory(), testNow)
		if err == nil || err.Kind != PermissionDenied {
			t.Fatalf("status %s: expected PERMISSION_DENIED, got %v", s, err)
		}
	}
}

func TestEngineerCannotTouchOthersComplaint(t *testing.T) {
	c := assignedComplaint("e-jun")
	_, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusInProgress}, engineerActor("e-sen"), testDirectory(), testNow)
	if err == nil || err.Kind != PermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
}

func TestEscalateFromUnresolvedJunior(t *testing.T) {
	c := assignedComplaint("e-jun")
	unresolved, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusUnresolved, Details: "needs senior input"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, events, err := Apply(unresolved, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusEscalated {
		t.Fatalf("expected Escalated, got %s", out.Status)
	}
	if out.Priority != models.PriorityEscalated {
		t.Fatalf("expected priority Escalated, got %s", out.Priority)
	}
	if out.AssignedTo != nil || out.AssignedToName != nil || out.CurrentHandlerLevel != nil {
		t.Fatalf("expected assignment cleared on escalation")
	}
	if len(events) != 1 || events[0].TargetLevel != models.LevelSenior {
		t.Fatalf("expected escalation event targeting Senior, got %+v", events)
	}
}

func TestEscalateWithoutHandlerTargetsJunior(t *testing.T) {
	c := newComplaint(models.StatusPendingAssignment)
	out, events, err := Apply(c, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusEscalated {
		t.Fatalf("expected Escalated, got %s", out.Status)
	}
	if events[0].TargetLevel != models.LevelJunior {
		t.Fatalf("expected re-triage at Junior, got %s", events[0].TargetLevel)
	}
}

func TestEscalateAgainRaisesTarget(t *testing.T) {
	c := assignedComplaint("e-jun")
	once, _, err := Apply(c, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once.EscalationTargetLevel == nil || *once.EscalationTargetLevel != models.LevelSenior {
		t.Fatalf("first escalation target = %+v, want Senior", once.EscalationTargetLevel)
	}

	twice, events, err := Apply(once, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if twice.EscalationTargetLevel == nil || *twice.EscalationTargetLevel != models.LevelExecutive {
		t.Fatalf("second escalation target = %+v, want Executive", twice.EscalationTargetLevel)
	}
	if events[0].TargetLevel != models.LevelExecutive {
		t.Fatalf("event target = %s, want Executive", events[0].TargetLevel)
	}

	_, _, applyErr := Apply(twice, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if applyErr == nil || applyErr.Kind != EscalationBlocked {
		t.Fatalf("expected ESCALATION_BLOCKED above Executive target, got %v", applyErr)
	}
}

func TestEscalateAtExecutiveBlocked(t *testing.T) {
	c := assignedComplaint("e-exec")
	unresolved, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusUnresolved, Details: "beyond repair"}, engineerActor("e-exec"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _, applyErr := Apply(unresolved, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if applyErr == nil || applyErr.Kind != EscalationBlocked {
		t.Fatalf("expected ESCALATION_BLOCKED, got %v", applyErr)
	}
	if out.Status != "" {
		t.Fatalf("expected no state change on blocked escalation")
	}
	if unresolved.Status != models.StatusUnresolved {
		t.Fatalf("input snapshot mutated")
	}
}

func TestEscalateFromResolvedRejected(t *testing.T) {
	c := assignedComplaint("e-jun")
	resolved, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "done"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, applyErr := Apply(resolved, Action{Kind: ActionEscalate}, admin, testDirectory(), testNow)
	if applyErr == nil || applyErr.Kind != InvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", applyErr)
	}
}

func TestReopenClearsResolution(t *testing.T) {
	c := assignedComplaint("e-jun")
	resolved, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "done"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _, err := Apply(resolved, Action{Kind: ActionReopen, Reason: "issue recurred"}, customer, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusReopened {
		t.Fatalf("expected Reopened, got %s", out.Status)
	}
	if out.ResolvedAt != nil || out.ResolutionDetails != nil {
		t.Fatalf("expected resolution cleared, got %+v", out)
	}
	if out.Priority != models.PriorityHigh {
		t.Fatalf("expected priority bumped to High, got %s", out.Priority)
	}
	last := out.InternalNotes[len(out.InternalNotes)-1]
	if last.IsInternal {
		t.Fatalf("customer reopen note should not be internal")
	}
}

func TestReopenKeepsEscalatedPriority(t *testing.T) {
	c := newComplaint(models.StatusClosed)
	c.Priority = models.PriorityEscalated
	out, _, err := Apply(c, Action{Kind: ActionReopen, Reason: "not actually fixed"}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Priority != models.PriorityEscalated {
		t.Fatalf("expected Escalated priority kept, got %s", out.Priority)
	}
	last := out.InternalNotes[len(out.InternalNotes)-1]
	if !last.IsInternal {
		t.Fatalf("admin reopen note should be internal")
	}
}

func TestActionNoteVisibilityFollowsActorRole(t *testing.T) {
	c := newComplaint(models.StatusResolved)
	out, _, err := Apply(c, Action{Kind: ActionReopen, Reason: "still broken", Note: "happened again this morning"}, customer, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := out.InternalNotes[len(out.InternalNotes)-1]
	if last.Text != "happened again this morning" {
		t.Fatalf("expected the action note last, got %q", last.Text)
	}
	if last.IsInternal {
		t.Fatal("customer's own note must stay visible to them")
	}

	reassigned, _, err := Apply(out, Action{Kind: ActionAssign, EngineerID: "e-sen", Note: "prioritize this one"}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last = reassigned.InternalNotes[len(reassigned.InternalNotes)-1]
	if !last.IsInternal {
		t.Fatal("admin note should be internal")
	}
}

func TestReopenRequiresReason(t *testing.T) {
	c := newComplaint(models.StatusResolved)
	_, _, err := Apply(c, Action{Kind: ActionReopen, Reason: "  "}, customer, testDirectory(), testNow)
	if err == nil || err.Kind != ValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestReopenFromActiveStateRejected(t *testing.T) {
	c := assignedComplaint("e-jun")
	_, _, err := Apply(c, Action{Kind: ActionReopen, Reason: "please"}, customer, testDirectory(), testNow)
	if err == nil || err.Kind != InvalidTransition {
		t.Fatalf("expected INVALID_TRANSITION, got %v", err)
	}
}

func TestCustomerCannotReopenOthersComplaint(t *testing.T) {
	c := newComplaint(models.StatusResolved)
	other := Actor{ID: "u-other", Name: "Other Customer", Role: models.RoleCustomer}
	_, _, err := Apply(c, Action{Kind: ActionReopen, Reason: "recurred"}, other, testDirectory(), testNow)
	if err == nil || err.Kind != PermissionDenied {
		t.Fatalf("expected PERMISSION_DENIED, got %v", err)
	}
}

func TestCloseDoesNotBackfillResolvedAt(t *testing.T) {
	c := assignedComplaint("e-jun")
	out, _, err := Apply(c, Action{Kind: ActionClose}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != models.StatusClosed {
		t.Fatalf("expected Closed, got %s", out.Status)
	}
	if out.ResolvedAt != nil {
		t.Fatalf("expected resolvedAt left null, got %v", out.ResolvedAt)
	}
}

func TestClosePreservesResolvedAtFromResolved(t *testing.T) {
	c := assignedComplaint("e-jun")
	resolved, _, err := Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "done"}, engineerActor("e-jun"), testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _, err := Apply(resolved, Action{Kind: ActionClose}, admin, testDirectory(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ResolvedAt == nil || !out.ResolvedAt.Equal(testNow) {
		t.Fatalf("expected resolvedAt preserved through close")
	}
}

func TestAdminLockedOutOfClosedExceptReopen(t *testing.T) {
	c := newComplaint(models.StatusClosed)
	for _, a := range []Action{
		{Kind: ActionAssign, EngineerID: "e-jun"},
		{Kind: ActionSetPriority, Priority: models.PriorityLow},
		{Kind: ActionEscalate},
		{Kind: ActionClose},
	} {
		_, _, err := Apply(c, a, admin, testDirectory(), testNow)
		if err == nil || err.Kind != PermissionDenied {
			t.Fatalf("action %s on closed: expected PERMISSION_DENIED, got %v", a.Kind, err)
		}
	}
	if _, _, err := Apply(c, Action{Kind: ActionReopen, Reason: "second look"}, admin, testDirectory(), testNow); err != nil {
		t.Fatalf("admin reopen from closed should succeed, got %v", err)
	}
}

func TestCustomerCannotAssignOrClose(t *testing.T) {
	c := newComplaint(models.StatusSubmitted)
	for _, a := range []Action{
		{Kind: ActionAssign, EngineerID: "e-jun"},
		{Kind: ActionClose},
		{Kind: ActionEscalate},
		{Kind: ActionSetPriority, Priority: models.PriorityLow},
		{Kind: ActionUpdateStatus, Status: models.StatusInProgress},
	} {
		_, _, err := Apply(c, a, customer, testDirectory(), testNow)
		if err == nil || err.Kind != PermissionDenied {
			t.Fatalf("action %s by customer: expected PERMISSION_DENIED, got %v", a.Kind, err)
		}
	}
}

func TestUnknownActionRejected(t *testing.T) {
	_, _, err := Apply(newComplaint(models.StatusSubmitted), Action{Kind: "frobnicate"}, admin, testDirectory(), testNow)
	if err == nil || err.Kind != ValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAuditTrailMonotonic(t *testing.T) {
	c := newComplaint(models.StatusSubmitted)
	steps := []struct {
		action Action
		actor  Actor
	}{
		{Action{Kind: ActionAssign, EngineerID: "e-jun"}, admin},
		{Action{Kind: ActionSetPriority, Priority: models.PriorityHigh}, admin},
		{Action{Kind: ActionUpdateStatus, Status: models.StatusUnresolved, Details: "stuck"}, engineerActor("e-jun")},
		{Action{Kind: ActionEscalate}, admin},
		{Action{Kind: ActionAssign, EngineerID: "e-sen"}, admin},
		{Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "fixed"}, engineerActor("e-sen")},
		{Action{Kind: ActionClose}, admin},
	}
	prev := len(c.InternalNotes)
	for i, s := range steps {
		out, _, err := Apply(c, s.action, s.actor, testDirectory(), testNow)
		if err != nil {
			t.Fatalf("step %d (%s): unexpected error %v", i, s.action.Kind, err)
		}
		if len(out.InternalNotes) < prev {
			t.Fatalf("step %d: audit trail shrank from %d to %d", i, prev, len(out.InternalNotes))
		}
		prev = len(out.InternalNotes)
		c = out
	}
}

// Walks the full escalation scenario: junior assignment, unresolved, escalate,
// senior assignment, resolve, customer reopen.
func TestEscalationScenarioEndToEnd(t *testing.T) {
	dir := testDirectory()
	c := newComplaint(models.StatusSubmitted)

	c, _, err := Apply(c, Action{Kind: ActionAssign, EngineerID: "e-jun"}, admin, dir, testNow)
	if err != nil {
		t.Fatalf("assign junior: %v", err)
	}
	if c.Status != models.StatusAssigned || *c.CurrentHandlerLevel != models.LevelJunior {
		t.Fatalf("step 1 state wrong: %+v", c)
	}

	c, _, err = Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusUnresolved, Details: "needs senior input"}, engineerActor("e-jun"), dir, testNow)
	if err != nil {
		t.Fatalf("mark unresolved: %v", err)
	}
	if c.Status != models.StatusUnresolved || c.ResolvedAt != nil {
		t.Fatalf("step 2 state wrong: %+v", c)
	}

	var events []Event
	c, events, err = Apply(c, Action{Kind: ActionEscalate}, admin, dir, testNow)
	if err != nil {
		t.Fatalf("escalate: %v", err)
	}
	if c.Status != models.StatusEscalated || c.Priority != models.PriorityEscalated || c.AssignedTo != nil {
		t.Fatalf("step 3 state wrong: %+v", c)
	}
	if events[0].TargetLevel != models.LevelSenior {
		t.Fatalf("step 3 target level wrong: %s", events[0].TargetLevel)
	}

	eligible := EligibleEngineers(c, directoryUsers())
	if len(eligible) != 2 {
		t.Fatalf("expected Senior and Executive eligible, got %+v", eligible)
	}
	for _, e := range eligible {
		if e.Level() == models.LevelJunior {
			t.Fatalf("junior engineer should not be eligible after escalation")
		}
	}

	c, _, err = Apply(c, Action{Kind: ActionAssign, EngineerID: "e-sen"}, admin, dir, testNow)
	if err != nil {
		t.Fatalf("assign senior: %v", err)
	}
	if c.Status != models.StatusAssigned || *c.CurrentHandlerLevel != models.LevelSenior {
		t.Fatalf("step 4 state wrong: %+v", c)
	}
	if c.Priority != models.PriorityEscalated {
		t.Fatalf("step 4: escalated priority should persist through assignment")
	}
	if c.EscalationTargetLevel != nil {
		t.Fatalf("step 4: escalation target should clear on reassignment")
	}

	c, _, err = Apply(c, Action{Kind: ActionUpdateStatus, Status: models.StatusResolved, Details: "replaced board"}, engineerActor("e-sen"), dir, testNow)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if c.Status != models.StatusResolved || c.ResolvedAt == nil {
		t.Fatalf("step 5 state wrong: %+v", c)
	}

	c, _, err = Apply(c, Action{Kind: ActionReopen, Reason: "issue recurred"}, customer, dir, testNow)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if c.Status != models.StatusReopened || c.ResolvedAt != nil || c.ResolutionDetails != nil {
		t.Fatalf("step 6 state wrong: %+v", c)
	}
}

func directoryUsers() []models.User {
	var out []models.User
	for _, id := range []string{"e-jun", "e-sen", "e-exec", "u-cust"} {
		u, _ := testDirectory().UserByID(id)
		out = append(out, u)
	}
	return out
}
