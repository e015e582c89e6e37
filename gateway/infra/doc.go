// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - CounterStore: contador vitalício por identidade em memória
//   - Store: token bucket por identidade usando golang.org/x/time/rate
//   - RedisDocumentStore: armazém de documentos sobre hashes do Redis
//   - DiskFileStore: armazém de arquivos em disco
//   - ChanPool: semáforo simples para limite de concorrência
package infra
