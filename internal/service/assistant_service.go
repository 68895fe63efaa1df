package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/akulasagar/aura-backend/internal/model"
	"github.com/akulasagar/aura-backend/internal/repository"
	"github.com/akulasagar/aura-backend/internal/timeutil"
)

// Fixed replies the chat channel falls back to. The chat endpoint
// always answers conversationally, so model-side failures degrade to
// these instead of becoming HTTP errors.
const (
	replyAITrouble     = "Sorry, I'm having trouble thinking right now."
	replyFormatTrouble = "I had a little trouble formatting my thoughts."
	replyUnknownAction = "I'm not sure how to handle that request, but I'm learning!"
	replyScheduleClear = "Your schedule is clear for now!"

	provisionalSummary = "A new day..."
	historyWindow      = 6
)

// HistoryMessage is one prior turn of the conversation.
type HistoryMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ChatResult is what the chat endpoint returns to the client.
type ChatResult struct {
	Reply  string      `json:"reply"`
	Action string      `json:"action,omitempty"`
	Plan   *model.Plan `json:"plan,omitempty"`
}

// AssistantService interprets one chat turn: it asks the model for
// either prose or a structured action, and maps the four action kinds
// (schedule, delete, edit, review) onto the plan repository.
type AssistantService struct {
	plans *repository.PlanRepository
	users *repository.UserRepository
	ai    Generator
}

func NewAssistantService(plans *repository.PlanRepository, users *repository.UserRepository, ai Generator) *AssistantService {
	return &AssistantService{plans: plans, users: users, ai: ai}
}

// actionPayload is the tagged union the model answers with when the
// user issued a direct command. Data stays raw until the tag is known.
type actionPayload struct {
	ResponseType        string          `json:"response_type"`
	Data                json.RawMessage `json:"data"`
	ConfirmationMessage string          `json:"confirmation_message"`
}

type scheduleData struct {
	Title string      `json:"title"`
	Date  string      `json:"date"`
	Tasks []TaskInput `json:"tasks"`
}

type deleteData struct {
	TaskDescription string `json:"task_description"`
	Date            string `json:"date"`
}

type editData struct {
	OriginalTaskDescription string `json:"original_task_description"`
	Date                    string `json:"date"`
	NewDescription          string `json:"new_description"`
	NewTime                 string `json:"new_time"`
}

type reviewData struct {
	Duration string `json:"duration"`
}

// Chat handles one inbound message. Model-side failures (generation
// errors, malformed action JSON) degrade to fixed replies with a nil
// error; only repository failures propagate.
func (s *AssistantService) Chat(ctx context.Context, userID uint, message string, history []HistoryMessage, pushToken string, now time.Time) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalid)
	}

	if pushToken != "" {
		if err := s.users.UpdatePushToken(ctx, userID, pushToken); err != nil {
			log.Printf("chat: save push token: %v", err)
		}
	}

	text, err := s.ai.GenerateContent(ctx, buildPrompt(message, history, now))
	if err != nil {
		log.Printf("chat: generation failed: %v", err)
		return &ChatResult{Reply: replyAITrouble}, nil
	}

	text = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "```json", ""), "```", ""))

	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		// Plain prose: pass through verbatim.
		return &ChatResult{Reply: text}, nil
	}

	var payload actionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		log.Printf("chat: bad action JSON: %v", err)
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	switch payload.ResponseType {
	case "schedule":
		return s.handleSchedule(ctx, userID, payload, now)
	case "delete":
		return s.handleDelete(ctx, userID, payload, now)
	case "edit":
		return s.handleEdit(ctx, userID, payload, now)
	case "review":
		return s.handleReview(ctx, userID, payload, now)
	default:
		return &ChatResult{Reply: replyUnknownAction}, nil
	}
}

// handleSchedule creates a new plan. The batch is all-or-nothing: one
// colliding task rejects the whole proposal and nothing is stored.
func (s *AssistantService) handleSchedule(ctx context.Context, userID uint, payload actionPayload, now time.Time) (*ChatResult, error) {
	var data scheduleData
	if err := json.Unmarshal(payload.Data, &data); err != nil || data.Title == "" || data.Date == "" || len(data.Tasks) == 0 {
		log.Printf("chat: schedule action missing data")
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	start, end, err := dayBounds(coerceYear(data.Date, now))
	if err != nil {
		log.Printf("chat: schedule action bad date %q", data.Date)
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	tasks := buildTasks(userID, start, data.Tasks)

	existingPlans, err := s.plans.ListByUserAndDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if hit := findConflict(occupiedTimes(existingPlans, 0, 0), tasks); hit != nil {
		reply := fmt.Sprintf("Sorry, I can't schedule %q because you already have another task scheduled for %s on that day.",
			hit.Description, hit.Time)
		return &ChatResult{Reply: reply}, nil
	}

	plan := &model.Plan{
		UserID:    userID,
		Title:     data.Title,
		Date:      start,
		AISummary: provisionalSummary,
		Tasks:     tasks,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	return &ChatResult{Reply: payload.ConfirmationMessage, Action: "plan_created", Plan: plan}, nil
}

// handleDelete removes the first task on the date whose description
// contains the given substring. Deleting the only task of a plan
// removes the plan itself.
func (s *AssistantService) handleDelete(ctx context.Context, userID uint, payload actionPayload, now time.Time) (*ChatResult, error) {
	var data deleteData
	if err := json.Unmarshal(payload.Data, &data); err != nil || data.TaskDescription == "" || data.Date == "" {
		log.Printf("chat: delete action missing data")
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	start, end, err := dayBounds(coerceYear(data.Date, now))
	if err != nil {
		log.Printf("chat: delete action bad date %q", data.Date)
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	plansOnDate, err := s.plans.ListByUserAndDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	plan, task := findTask(plansOnDate, data.TaskDescription)
	if task == nil {
		return &ChatResult{Reply: fmt.Sprintf("I couldn't find a task like %q.", data.TaskDescription)}, nil
	}

	if len(plan.Tasks) == 1 {
		err = s.plans.Delete(ctx, plan.ID)
	} else {
		err = s.plans.DeleteTask(ctx, task.ID)
	}
	if err != nil {
		return nil, err
	}

	reply := payload.ConfirmationMessage
	if reply == "" {
		reply = fmt.Sprintf("Okay, I've deleted %q.", task.Description)
	}
	return &ChatResult{Reply: reply, Action: "plan_deleted"}, nil
}

// handleEdit rewrites a task's description and/or time. A new time is
// re-checked against every other task scheduled that day.
func (s *AssistantService) handleEdit(ctx context.Context, userID uint, payload actionPayload, now time.Time) (*ChatResult, error) {
	var data editData
	if err := json.Unmarshal(payload.Data, &data); err != nil ||
		data.OriginalTaskDescription == "" || data.Date == "" ||
		(data.NewDescription == "" && data.NewTime == "") {
		log.Printf("chat: edit action missing data")
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	start, end, err := dayBounds(coerceYear(data.Date, now))
	if err != nil {
		log.Printf("chat: edit action bad date %q", data.Date)
		return &ChatResult{Reply: replyFormatTrouble}, nil
	}

	plansOnDate, err := s.plans.ListByUserAndDate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	_, task := findTask(plansOnDate, data.OriginalTaskDescription)
	if task == nil {
		return &ChatResult{Reply: fmt.Sprintf("I couldn't find a task like %q to edit.", data.OriginalTaskDescription)}, nil
	}

	if data.NewTime != "" {
		normalized := timeutil.NormalizeTime(data.NewTime)
		if _, taken := occupiedTimes(plansOnDate, 0, task.ID)[normalized]; taken {
			return &ChatResult{Reply: fmt.Sprintf("Sorry, you already have another task scheduled for %s.", data.NewTime)}, nil
		}
		task.Time = normalized
	}
	if data.NewDescription != "" {
		task.Description = data.NewDescription
	}

	if err := s.plans.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	reply := payload.ConfirmationMessage
	if reply == "" {
		reply = "Done! I've updated your plan."
	}
	return &ChatResult{Reply: reply, Action: "plan_edited"}, nil
}

// handleReview lists the day's incomplete tasks as a single sentence.
// "upcoming" (the default) keeps only tasks strictly after now;
// "full_day" keeps the whole day.
func (s *AssistantService) handleReview(ctx context.Context, userID uint, payload actionPayload, now time.Time) (*ChatResult, error) {
	var data reviewData
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &data); err != nil {
			log.Printf("chat: review action bad data")
			return &ChatResult{Reply: replyFormatTrouble}, nil
		}
	}
	upcomingOnly := data.Duration != "full_day"

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	plansToday, err := s.plans.ListByUserAndDate(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	type entry struct {
		description string
		time        string
		minutes     int
	}
	var entries []entry
	for _, plan := range plansToday {
		for _, task := range plan.Tasks {
			if task.IsCompleted {
				continue
			}
			hours, minutes, ok := timeutil.ParseTime(task.Time)
			if !ok {
				continue
			}
			at := time.Date(plan.Date.Year(), plan.Date.Month(), plan.Date.Day(),
				hours, minutes, 0, 0, now.Location())
			if upcomingOnly && !at.After(now) {
				continue
			}
			entries = append(entries, entry{task.Description, task.Time, hours*60 + minutes})
		}
	}

	if len(entries) == 0 {
		return &ChatResult{Reply: replyScheduleClear}, nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].minutes < entries[j].minutes })

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("at %s you have %q", e.time, e.description))
	}
	return &ChatResult{Reply: fmt.Sprintf("Okay, coming up: %s.", strings.Join(parts, ", and later "))}, nil
}

// findTask returns the first task on the date whose description
// contains the substring, case-insensitive, in repository iteration
// order. First match wins; there is no further tie-break.
func findTask(plans []model.Plan, substring string) (*model.Plan, *model.Task) {
	needle := strings.ToLower(substring)
	for i := range plans {
		for j := range plans[i].Tasks {
			if strings.Contains(strings.ToLower(plans[i].Tasks[j].Description), needle) {
				return &plans[i], &plans[i].Tasks[j]
			}
		}
	}
	return nil, nil
}

func buildPrompt(message string, history []HistoryMessage, now time.Time) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var turns []string
	for _, msg := range history {
		speaker := "Aura"
		if msg.Sender == "user" {
			speaker = "User"
		}
		turns = append(turns, fmt.Sprintf("%s: %s", speaker, msg.Text))
	}

	today := now.Format(dayFormat)
	year := now.Year()

	return fmt.Sprintf(`--- CONVERSATION HISTORY (FOR CONTEXT) ---
%s
------------------------------------------

SYSTEM PROMPT:
You are "Aura," an intelligent AI assistant. Analyze the "Current User Request" below. Your default behavior is to be a helpful conversationalist.

Your capabilities:
1.  **General Conversation (Default):** If the user's request is a greeting, a follow-up question, or a statement about a past event, you MUST respond with simple text. DO NOT use JSON.
2.  **Structured Actions:** ONLY if the user's request is a clear command to schedule, delete, edit, or review tasks, you MUST respond with a JSON object. This JSON MUST contain a "response_type" key.

CRITICAL INSTRUCTION: You are a DIRECT ACTION assistant. When a user asks you to perform an action, create the JSON for that action immediately. Your 'confirmation_message' MUST state the action is complete. DO NOT ask for confirmation.

TIME FORMAT: In your JSON response, the "time" field for tasks MUST be in 24-hour HH:mm format (e.g., "19:30" for 7:30 PM).

Action Formats (only use if it's a direct command):
- SCHEDULING: { "response_type": "schedule", "data": { "title": "short plan title", "date": "YYYY-MM-DD", "tasks": [{"description": "task desc", "time": "HH:mm"}] }, "confirmation_message": "friendly message for the user" }
- DELETING: { "response_type": "delete", "data": { "task_description": "description of task to delete", "date": "YYYY-MM-DD" }, "confirmation_message": "friendly confirmation message" }
- EDITING: { "response_type": "edit", "data": { "original_task_description": "the task to find", "date": "YYYY-MM-DD", "new_description": "the new description (optional)", "new_time": "the new time (optional, HH:mm)" }, "confirmation_message": "friendly confirmation message" }
- REVIEWING: { "response_type": "review", "data": { "duration": "upcoming" | "full_day" } }

CRITICAL DATE INSTRUCTION: Today is %s. Unless a year is specified, always use the current year: %d.

--- CURRENT USER REQUEST ---
%s
----------------------------
Aura:`, strings.Join(turns, "\n"), today, year, message)
}
