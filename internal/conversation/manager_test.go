package conversation

import (
	"testing"
	"time"
)

func TestCreateSessionAndMessages(t *testing.T) {
	m := NewManager(time.Hour)

	id := m.CreateSession("u1", "")
	if id == "" {
		t.Fatal("empty session id")
	}

	if err := m.AddMessage(id, "user", "Thủ tục mua đất?", nil); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := m.AddMessage(id, "bot", "Bạn cần giấy chứng nhận quyền sử dụng đất.", nil); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := m.AddMessage("missing", "user", "x", nil); err == nil {
		t.Error("message accepted for unknown session")
	}

	answer, ok := m.LastBotAnswer(id)
	if !ok || answer != "Bạn cần giấy chứng nhận quyền sử dụng đất." {
		t.Errorf("LastBotAnswer = %q, %v", answer, ok)
	}
}

func TestGetContextWindow(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.CreateSession("u1", "tư vấn đất")

	turns := []struct{ role, content string }{
		{"user", "Thủ tục mua đất nông nghiệp?"},
		{"bot", "Cần kiểm tra điều kiện nhận chuyển nhượng."},
		{"user", "Vậy còn thuế thì sao?"},
	}
	for _, turn := range turns {
		if err := m.AddMessage(id, turn.role, turn.content, nil); err != nil {
			t.Fatal(err)
		}
	}

	w, ok := m.GetContextWindow(id, 5)
	if !ok {
		t.Fatal("window missing for live session")
	}
	if len(w.Messages) != 3 {
		t.Errorf("got %d messages, want 3", len(w.Messages))
	}
	if len(w.UserQuestions) != 2 || len(w.BotAnswers) != 1 {
		t.Errorf("questions/answers = %d/%d, want 2/1", len(w.UserQuestions), len(w.BotAnswers))
	}
	if !w.Continuity {
		t.Error("follow-up wording not detected as continuity")
	}
	if len(w.Topics) == 0 {
		t.Error("no topics extracted")
	}

	// Window truncates to the most recent messages.
	w, _ = m.GetContextWindow(id, 2)
	if len(w.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(w.Messages))
	}
	if w.Messages[1].Content != "Vậy còn thuế thì sao?" {
		t.Errorf("window lost the latest message: %q", w.Messages[1].Content)
	}
}

func TestGetContextWindow_FirstTurnHasNoContinuity(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.CreateSession("u1", "")

	// Continuity wording on the opening question is not a follow-up:
	// there is no earlier user turn to continue from.
	if err := m.AddMessage(id, "user", "Vậy còn thuế đất thì sao?", nil); err != nil {
		t.Fatal(err)
	}

	w, ok := m.GetContextWindow(id, 5)
	if !ok {
		t.Fatal("window missing for live session")
	}
	if w.Continuity {
		t.Error("single-turn session reported continuity")
	}
}

func TestIsFollowUp(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.CreateSession("u1", "")

	if m.IsFollowUp(id) {
		t.Error("fresh session marked as follow-up")
	}
	for _, turn := range []string{"user", "bot", "user"} {
		if err := m.AddMessage(id, turn, "nội dung", nil); err != nil {
			t.Fatal(err)
		}
	}
	if !m.IsFollowUp(id) {
		t.Error("session with a full exchange not marked as follow-up")
	}
}

func TestConversationStats(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.CreateSession("u1", "")

	if err := m.AddMessage(id, "user", "1234", nil); err != nil {
		t.Fatal(err)
	}
	if err := m.AddMessage(id, "bot", "12345678", nil); err != nil {
		t.Fatal(err)
	}

	st, ok := m.ConversationStats(id)
	if !ok {
		t.Fatal("stats missing for live session")
	}
	if st.TotalMessages != 2 || st.UserMessages != 1 || st.BotMessages != 1 {
		t.Errorf("counts = %+v", st)
	}
	if st.AvgUserMsgLength != 4 || st.AvgBotMsgLength != 8 {
		t.Errorf("avg lengths = %v/%v, want 4/8", st.AvgUserMsgLength, st.AvgBotMsgLength)
	}
	if st.Duration == "" {
		t.Error("empty duration")
	}
}

func TestSessionExpiry(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	id := m.CreateSession("u1", "")

	time.Sleep(30 * time.Millisecond)
	if _, ok := m.GetContextWindow(id, 5); ok {
		t.Error("expired session still served")
	}
}

func TestUpdateContext(t *testing.T) {
	m := NewManager(time.Hour)
	id := m.CreateSession("u1", "")

	if err := m.UpdateContext(id, "last_intent", "procedure"); err != nil {
		t.Fatalf("UpdateContext: %v", err)
	}
	if err := m.UpdateContext("missing", "k", "v"); err == nil {
		t.Error("context update accepted for unknown session")
	}
}
