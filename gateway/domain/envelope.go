package domain

// Code é o código de resultado do contrato numérico do gateway.
//
// Os valores são fixos: clientes existentes dependem dos inteiros, não dos
// nomes. A faixa 1010–1040 está reservada para classes de falha de
// credencial/configuração e fica declarada para manter o espaço aberto.
type Code int

const (
	CodeSuccess             Code = 0
	CodeFail                Code = 1000
	CodeEventNotExist       Code = 1001
	CodePassExist           Code = 1010
	CodeConfigNotExist      Code = 1020
	CodeCredentialsNotExist Code = 1021
	CodePassNotExist        Code = 1022
	CodePassNotMatch        Code = 1023
	CodeNeedLogin           Code = 1024
	CodeCredentialsInvalid  Code = 1025
	CodeAkismetError        Code = 1030
	CodeUploadFailed        Code = 1040
	CodeForbidden           Code = 1403
)

// Request é o envelope de entrada: um evento nomeado + payload livre.
// Construído a cada invocação; nunca é persistido.
type Request struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

// Response é o envelope de saída. Invariante: Code sempre é definido,
// inclusive para evento desconhecido ou falha não tratada no handler.
type Response struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Vocabulário fechado de eventos aceitos pelo gateway.
// O evento vazio significa "ping" e não é um erro.
const (
	EventGetTodos        = "GET_TODOS"
	EventAddTodos        = "ADD_TODOS"
	EventUpdateTodos     = "UPDATE_TODOS"
	EventRemoveTodos     = "REMOVE_TODOS"
	EventRemoveCompleted = "REMOVE_COMPLETED"
	EventChangeTodoState = "CHANGE_TODO_STATE"
	EventDeleteFile      = "DELETE_FILE"
	EventUploadFile      = "UPLOAD_FILE"
	EventTestFunction    = "TEST_FUNCTION"
)
