package services

import (
	"testing"
	"time"

	"pocketbook/internal/testutil"
)

func TestCalendarEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCalendarService(db)
	user := testutil.CreateTestUser(t, db)

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateEvent(user.ID, "", "", march, false)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	event, err := svc.CreateEvent(user.ID, "Dentist", "checkup", march, true)
	testutil.AssertNoError(t, err)
	if !event.IsReminder {
		t.Error("expected reminder flag")
	}
	testutil.CreateTestEvent(t, db, user.ID, april)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	events, err := svc.GetEvents(user.ID, &from, &to)
	testutil.AssertNoError(t, err)
	if len(events) != 1 || events[0].ID != event.ID {
		t.Errorf("expected only the March event, got %d events", len(events))
	}

	updated, err := svc.UpdateEvent(user.ID, event.ID, EventUpdate{Title: strPtr("Dentist (moved)"), IsReminder: boolPtr(false)})
	testutil.AssertNoError(t, err)
	if updated.Title != "Dentist (moved)" || updated.IsReminder {
		t.Errorf("unexpected update result: %+v", updated)
	}

	testutil.AssertNoError(t, svc.DeleteEvent(user.ID, event.ID))
	_, err = svc.GetEventByID(user.ID, event.ID)
	testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")
}

func TestCalendarTasks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCalendarService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	task, err := svc.CreateTask(user.ID, "Restock tea", "", day)
	testutil.AssertNoError(t, err)
	if task.Completed {
		t.Error("expected new task to be open")
	}
	testutil.CreateTestTask(t, db, user.ID, day.AddDate(0, 0, 1))

	toggled, err := svc.ToggleTask(user.ID, task.ID)
	testutil.AssertNoError(t, err)
	if !toggled.Completed {
		t.Error("expected task completed after toggle")
	}

	done, err := svc.GetTasks(user.ID, nil, nil, boolPtr(true))
	testutil.AssertNoError(t, err)
	if len(done) != 1 {
		t.Errorf("expected 1 completed task, got %d", len(done))
	}

	all, err := svc.GetTasks(user.ID, nil, nil, nil)
	testutil.AssertNoError(t, err)
	if len(all) != 2 || all[0].Completed {
		t.Errorf("expected open tasks first, got %+v", all)
	}

	toggled, err = svc.ToggleTask(user.ID, task.ID)
	testutil.AssertNoError(t, err)
	if toggled.Completed {
		t.Error("expected task reopened after second toggle")
	}

	_, err = svc.ToggleTask(other.ID, task.ID)
	testutil.AssertAppError(t, err, "TASK_NOT_FOUND")

	_, err = svc.UpdateTask(user.ID, task.ID, TaskUpdate{Title: strPtr(" ")})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	testutil.AssertNoError(t, svc.DeleteTask(user.ID, task.ID))
}
