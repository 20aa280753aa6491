package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"site-task-manager/classifier"
	"site-task-manager/database"
	"site-task-manager/models"
	"site-task-manager/utilities"
)

// TaskHandler expõe o TaskStore via HTTP.
type TaskHandler struct {
	store database.TaskStore
}

func NewTaskHandler(store database.TaskStore) *TaskHandler {
	return &TaskHandler{store: store}
}

// ListTasks lista as tarefas, filtrando por status, categoria e prioridade.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.TaskFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Priority: q.Get("priority"),
	}

	tasks, err := h.store.List(r.Context(), filter)
	if err != nil {
		utilities.LogError(err, "Erro ao listar tarefas")
		respondError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask cria e classifica uma nova tarefa.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input models.CreateTaskInput
	if err := decodeJSON(r, &input); err != nil {
		utilities.LogWarn("Corpo inválido ao criar tarefa: %v", err)
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.Title = strings.TrimSpace(input.Title)

	if err := models.ValidateStruct(input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.store.Create(r.Context(), input)
	if err != nil {
		utilities.LogError(err, "Erro ao criar tarefa")
		respondError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	utilities.LogInfo("Tarefa criada: %s (categoria: %s, prioridade: %s)", task.ID, task.Category, task.Priority)
	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "Erro ao buscar tarefa "+id)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask aplica uma atualização parcial. O texto editado não é reclassificado.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input models.UpdateTaskInput
	if err := decodeJSON(r, &input); err != nil {
		utilities.LogWarn("Corpo inválido ao atualizar tarefa %s: %v", id, err)
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}

	if err := models.ValidateStruct(input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.store.Update(r.Context(), id, input)
	if err != nil {
		h.storeError(w, err, "Erro ao atualizar tarefa "+id)
		return
	}

	utilities.LogInfo("Tarefa atualizada: %s", id)
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, err, "Erro ao deletar tarefa "+id)
		return
	}

	utilities.LogInfo("Tarefa deletada: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// TaskHistory retorna o histórico de uma tarefa existente, do mais antigo ao mais recente.
func (h *TaskHandler) TaskHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.storeError(w, err, "Erro ao buscar tarefa "+id)
		return
	}

	entries, err := h.store.History(r.Context(), id)
	if err != nil {
		utilities.LogError(err, "Erro ao buscar histórico da tarefa "+id)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// Classify devolve a classificação sem persistir nada.
func (h *TaskHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var input models.ClassifyInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.Title = strings.TrimSpace(input.Title)

	if err := models.ValidateStruct(input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, classifier.Classify(input.Title, input.Description))
}

func (h *TaskHandler) storeError(w http.ResponseWriter, err error, context string) {
	if errors.Is(err, database.ErrTaskNotFound) {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	utilities.LogError(err, context)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// RegisterRoutes monta as rotas de tarefas sob prefix, direto no router raiz
// para que um método errado responda 405. mw envolve apenas estas rotas.
func (h *TaskHandler) RegisterRoutes(r *mux.Router, prefix string, mw ...mux.MiddlewareFunc) {
	handle := func(path string, fn http.HandlerFunc, method string) {
		var handler http.Handler = fn
		for i := len(mw) - 1; i >= 0; i-- {
			handler = mw[i](handler)
		}
		r.Handle(prefix+path, handler).Methods(method)
	}

	handle("/tasks", h.ListTasks, "GET")
	handle("/tasks", h.CreateTask, "POST")
	handle("/tasks/{id}", h.GetTask, "GET")
	handle("/tasks/{id}", h.UpdateTask, "PATCH")
	handle("/tasks/{id}", h.DeleteTask, "DELETE")
	handle("/tasks/{id}/history", h.TaskHistory, "GET")
	handle("/classify", h.Classify, "POST")
}
