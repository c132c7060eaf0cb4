package node

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/sirupsen/logrus"
)

// Node is a container and manager of services
type Node struct {
	config *Config

	EvBus EventBus.Bus

	serviceNames []string
	services     map[string]Service
	serviceFuncs []NamedServiceConstructor // registered services store into this slice

	stop chan struct{}
	lock sync.RWMutex

	Log *logrus.Logger
}

type NamedServiceConstructor struct {
	name        string
	constructor ServiceConstructor
}

func New(conf *Config, logger *logrus.Logger) (*Node, error) {
	// Copy config
	confCopy := *conf
	conf = &confCopy
	if conf.DataDir != "" {
		dir, err := filepath.Abs(conf.DataDir)
		if err != nil {
			return nil, err
		}
		conf.DataDir = dir
	}
	// Ensure that the instance name doesn't cause weird conflicts with
	// other files in the data directory.
	if strings.ContainsAny(conf.Name, `/\`) {
		return nil, errors.New(`Config.Name must not contain '/' or '\'`)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Node{
		config:       conf,
		serviceNames: []string{},
		serviceFuncs: []NamedServiceConstructor{},
		Log:          logger,
	}, nil
}

func (n *Node) Config() *Config {
	return n.config
}

func (n *Node) Register(name string, constructor ServiceConstructor) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.serviceFuncs = append(n.serviceFuncs, NamedServiceConstructor{name: name, constructor: constructor})
	return nil
}

func (n *Node) Start() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.EvBus = EventBus.New()
	n.services, n.serviceNames = nil, nil
	n.stop = make(chan struct{})

	if err := n.openDataDir(); err != nil {
		return err
	}

	serviceNames := make([]string, 0, len(n.serviceFuncs))
	services := make(map[string]Service)

	for _, namedConstructor := range n.serviceFuncs {
		ctx := &ServiceContext{
			config: n.config,
			// to support services to share, the list of services pass by reference
			services: services,
			log:      n.Log,
		}

		name := namedConstructor.name
		constructor := namedConstructor.constructor

		service, err := constructor(ctx)
		if err != nil {
			return err
		}
		if _, exists := services[name]; exists {
			return &DuplicateServiceError{Kind: name}
		}
		serviceNames = append(serviceNames, name)
		services[name] = service
	}

	var started []string
	for _, kind := range serviceNames {
		service := services[kind]
		if err := service.Start(n); err != nil {
			for i := len(started) - 1; i >= 0; i-- {
				_ = services[started[i]].Stop()
			}
			return err
		}
		started = append(started, kind)
		n.Log.WithField("service", kind).Debug("service started")
	}

	n.services, n.serviceNames = services, serviceNames
	return nil
}

func (n *Node) openDataDir() error {
	if n.config.DataDir == "" {
		return nil
	}
	confdir := filepath.Join(n.config.DataDir, n.config.name())
	return os.MkdirAll(confdir, 0700)
}

func (n *Node) Stop() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	failure := &StopError{
		Services: make(map[string]error),
	}

	length := len(n.serviceNames)
	for i := range n.serviceNames {
		kind := n.serviceNames[length-1-i]
		service := n.services[kind]
		if err := service.Stop(); err != nil {
			failure.Services[kind] = err
		}
	}
	n.services, n.serviceNames = nil, nil
	if n.stop != nil {
		close(n.stop)
		n.stop = nil
	}

	if len(failure.Services) > 0 {
		return failure
	}
	return nil
}

// Wait blocks until the node is stopped.
func (n *Node) Wait() {
	n.lock.RLock()
	stop := n.stop
	n.lock.RUnlock()

	if stop != nil {
		<-stop
	}
}

func (n *Node) Restart() error {
	if err := n.Stop(); err != nil {
		return err
	}
	return n.Start()
}

func (n *Node) Service(serviceName string) (interface{}, error) {
	n.lock.RLock()
	defer n.lock.RUnlock()

	if running, ok := n.services[serviceName]; ok {
		return running, nil
	}
	return nil, ErrServiceUnknown
}
