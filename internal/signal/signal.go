package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	// interruptChannel receives SIGINT and SIGTERM.
	interruptChannel chan os.Signal

	// addHandlerChannel registers callbacks with the main handler goroutine.
	addHandlerChannel = make(chan func())

	// InterruptHandlersDone is closed after all interrupt handlers ran.
	InterruptHandlersDone = make(chan struct{})

	simulateInterruptChannel = make(chan struct{}, 1)

	startOnce sync.Once
)

var signals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SimulateInterrupt starts the shutdown sequence from inside the process.
func SimulateInterrupt() {
	select {
	case simulateInterruptChannel <- struct{}{}:
	default:
	}
}

// mainInterruptHandler invokes the registered callbacks, newest first, on
// the first interrupt. It must be run as a goroutine.
func mainInterruptHandler() {
	var interruptCallbacks []func()
	invokeCallbacks := func() {
		for i := len(interruptCallbacks) - 1; i >= 0; i-- {
			interruptCallbacks[i]()
		}
		close(InterruptHandlersDone)
	}

	for {
		select {
		case <-interruptChannel:
			invokeCallbacks()
			return
		case <-simulateInterruptChannel:
			invokeCallbacks()
			return
		case handler := <-addHandlerChannel:
			interruptCallbacks = append(interruptCallbacks, handler)
		}
	}
}

func start() {
	startOnce.Do(func() {
		interruptChannel = make(chan os.Signal, 1)
		signal.Notify(interruptChannel, signals...)
		go mainInterruptHandler()
	})
}

// AddInterruptHandler adds a handler to call on interrupt. Handlers added
// after the interrupt was handled never run.
func AddInterruptHandler(handler func()) {
	start()
	select {
	case addHandlerChannel <- handler:
	case <-InterruptHandlersDone:
	}
}

// Context returns a context that is cancelled when an interrupt arrives.
func Context(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	AddInterruptHandler(cancel)
	return ctx
}

// InterruptRequested reports whether the interrupt handlers already ran.
func InterruptRequested() bool {
	select {
	case <-InterruptHandlersDone:
		return true
	default:
	}
	return false
}
