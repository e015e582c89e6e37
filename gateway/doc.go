// Package gateway fornece o adapter HTTP (net/http) do ponto de entrada
// único do gateway RPC, além de middlewares de rajada e concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (despacho, teto por identidade, registro de
//     comandos) sem net/http
//   - infra: implementações concretas (contador, token bucket, Redis, disco)
//   - gateway (este pacote): endpoint HTTP + extração de identidade +
//     tradução para o formato de fio JSON
//
// Fluxo no servidor:
//
//  1. Extrai a identidade do chamador (IP/header/XFF)
//  2. Decodifica o envelope {event, data, accessToken}
//  3. Chama a camada application para despachar
//  4. Devolve {requestId, result, accessToken?} sempre com status 200;
//     só erro de transporte (corpo malformado, método errado) sai não-200
package gateway
