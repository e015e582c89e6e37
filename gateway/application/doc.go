// Package application contém os casos de uso do gateway: checagem de teto
// por identidade, despacho de eventos para handlers registrados e o conjunto
// de comandos do backend de todos.
//
// Ele depende apenas do pacote domain (e do logger) e não conhece net/http.
// Ex.: Dispatcher.Dispatch(ctx, id, req) devolve sempre um Response com
// código definido, nunca um erro.
package application
