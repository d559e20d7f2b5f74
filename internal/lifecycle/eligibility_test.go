package lifecycle

import (
	"testing"

	"github.com/resolvedesk/backend/internal/models"
)

func engineerUser(id string, level models.EngineerLevel) models.User {
	l := level
	return models.User{ID: id, Name: id, Role: models.RoleEngineer, EngineerLevel: &l}
}

func TestEligibleAllEngineersForFreshComplaint(t *testing.T) {
	users := []models.User{
		engineerUser("e1", models.LevelJunior),
		engineerUser("e2", models.LevelSenior),
		{ID: "a1", Name: "admin", Role: models.RoleAdmin},
	}
	for _, status := range []models.ComplaintStatus{models.StatusSubmitted, models.StatusPendingAssignment, models.StatusReopened} {
		c := models.Complaint{Status: status}
		got := EligibleEngineers(c, users)
		if len(got) != 2 {
			t.Fatalf("status %s: expected all engineers, got %+v", status, got)
		}
	}
}

func TestEligibleStrictlyHigherForUnresolved(t *testing.T) {
	users := []models.User{
		engineerUser("e-jun", models.LevelJunior),
		engineerUser("e-sen", models.LevelSenior),
		engineerUser("e-exec", models.LevelExecutive),
	}
	handler := "e-jun"
	level := models.LevelJunior
	c := models.Complaint{Status: models.StatusUnresolved, AssignedTo: &handler, CurrentHandlerLevel: &level}

	got := EligibleEngineers(c, users)
	if len(got) != 2 {
		t.Fatalf("expected Senior+Executive, got %+v", got)
	}
	for _, e := range got {
		if e.Level() == models.LevelJunior {
			t.Fatalf("junior should be excluded, got %+v", got)
		}
	}
}

func TestEligibleEscalatedUsesTargetFloor(t *testing.T) {
	users := []models.User{
		engineerUser("e-jun", models.LevelJunior),
		engineerUser("e-sen", models.LevelSenior),
		engineerUser("e-exec", models.LevelExecutive),
	}
	target := models.LevelExecutive
	c := models.Complaint{Status: models.StatusEscalated, EscalationTargetLevel: &target}

	got := EligibleEngineers(c, users)
	if len(got) != 1 || got[0].ID != "e-exec" {
		t.Fatalf("expected only Executive at target floor, got %+v", got)
	}
}

func TestEligibleExecutivePeersExcludeCurrentHandler(t *testing.T) {
	users := []models.User{
		engineerUser("e-exec1", models.LevelExecutive),
		engineerUser("e-exec2", models.LevelExecutive),
		engineerUser("e-sen", models.LevelSenior),
	}
	handler := "e-exec1"
	level := models.LevelExecutive
	c := models.Complaint{Status: models.StatusUnresolved, AssignedTo: &handler, CurrentHandlerLevel: &level}

	got := EligibleEngineers(c, users)
	if len(got) != 1 || got[0].ID != "e-exec2" {
		t.Fatalf("expected the other executive only, got %+v", got)
	}
}

func TestEligibleExecutiveFallbackWhenNoPeers(t *testing.T) {
	users := []models.User{
		engineerUser("e-exec1", models.LevelExecutive),
		engineerUser("e-sen", models.LevelSenior),
	}
	handler := "e-exec1"
	level := models.LevelExecutive
	c := models.Complaint{Status: models.StatusUnresolved, AssignedTo: &handler, CurrentHandlerLevel: &level}

	got := EligibleEngineers(c, users)
	if len(got) != 1 || got[0].ID != "e-exec1" {
		t.Fatalf("expected fallback to all executives, got %+v", got)
	}
}

func TestEligibleSortedByTierDescending(t *testing.T) {
	users := []models.User{
		engineerUser("b-jun", models.LevelJunior),
		engineerUser("a-exec", models.LevelExecutive),
		engineerUser("a-sen", models.LevelSenior),
	}
	c := models.Complaint{Status: models.StatusSubmitted}

	got := EligibleEngineers(c, users)
	if got[0].ID != "a-exec" || got[1].ID != "a-sen" || got[2].ID != "b-jun" {
		t.Fatalf("expected tier-descending order, got %+v", got)
	}
}
