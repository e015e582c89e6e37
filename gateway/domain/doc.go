// Package domain define contratos e tipos de domínio do gateway RPC.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar as regras do
// gateway (despacho, throttle, registro de comandos) de detalhes de
// infraestrutura (Redis, disco, HTTP).
package domain
