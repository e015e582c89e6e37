// Package client é o lado chamador do gateway RPC.
//
// A estratégia de transporte é resolvida uma única vez na construção do
// Client: havendo um binding direto para o dispatcher no mesmo processo,
// ele vence sempre; senão, um EnvID em forma de URL HTTP(S) liga o
// transporte de fallback por POST JSON. Nenhum dos dois disponível é erro
// fatal de configuração, nunca tentado de novo.
//
// No fallback HTTP, o access token persistido é lido antes de cada envio e
// regravado quando a resposta traz um token renovado (ver CredentialCache).
package client
