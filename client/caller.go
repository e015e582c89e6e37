package client

import (
	"context"
	"fmt"
	"sync"
)

// PeerCaller implementa domain.FunctionCaller sobre clientes deste mesmo
// protocolo: cada nome de função resolve para o endpoint de outro gateway.
// Os clientes derivados são criados sob demanda e reaproveitados.
type PeerCaller struct {
	// URLs mapeia nome de função -> endpoint HTTP do gateway vizinho.
	URLs map[string]string
	// Base fornece AppName/CacheDir/HTTPClient/Logger para os clientes
	// derivados; EnvID é substituído pela URL da função.
	Base Options

	mu      sync.Mutex
	clients map[string]*Client
}

func (p *PeerCaller) Call(ctx context.Context, name string, data map[string]any) (any, error) {
	cl, err := p.clientFor(name)
	if err != nil {
		return nil, err
	}

	// o payload viaja como data de um envelope sem evento (ping) do
	// protocolo vizinho; o protocolo é auto-similar
	res, err := cl.Call(ctx, "", data)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *PeerCaller) clientFor(name string) (*Client, error) {
	url, ok := p.URLs[name]
	if !ok {
		return nil, fmt.Errorf("unknown peer function %q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cl, ok := p.clients[name]; ok {
		return cl, nil
	}

	opts := p.Base
	opts.EnvID = url
	cl, err := New(opts, nil)
	if err != nil {
		return nil, err
	}
	if p.clients == nil {
		p.clients = make(map[string]*Client)
	}
	p.clients[name] = cl
	return cl, nil
}
