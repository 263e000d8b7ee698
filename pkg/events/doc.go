/*
Package events provides an in-memory event broker for preflight's pub/sub messaging.

The events package implements a lightweight event bus for broadcasting pipeline
events to interested subscribers. It supports asynchronous event delivery with
buffered channels, enabling loose coupling between the validation, healing,
snapshot, and watch components.

# Architecture

	┌──────────────────── EVENT BROKER ────────────────────────┐
	│                                                           │
	│  Publisher → Event Channel (buffer: 100)                  │
	│       ↓                                                   │
	│  Broadcast Loop                                           │
	│       ↓                                                   │
	│  Subscriber Channels (buffer: 50 each)                    │
	│                                                           │
	└───────────────────────────────────────────────────────────┘

Publish is non-blocking: events go onto a buffered channel and the broadcast
loop fans them out. Subscribers with full buffers skip events rather than
stall the broker.

# Event Types Catalog

EventValidationCompleted ("validation.completed"):
  - Published when: a validation suite run finishes
  - Metadata: status, errors, warnings

EventHealingApplied ("healing.applied"):
  - Published when: the healer changed the configuration
  - Metadata: fixes (count of remediation log entries)

EventSimulationCompleted ("simulation.completed"):
  - Published when: a deployment simulation finishes
  - Metadata: success, issues

EventSnapshotCreated ("snapshot.created"):
  - Published when: a config snapshot is written to history
  - Metadata: path

EventRollbackTriggered ("rollback.triggered"):
  - Published when: a failed apply restores the last known-good snapshot
  - Metadata: path, reason

EventConfigChanged ("config.changed"):
  - Published when: watch mode detects the config file changed on disk
  - Metadata: path, sha256

# Usage

Creating and starting a broker:

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

Subscribing:

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			fmt.Printf("Event: %s - %s\n", event.Type, event.Message)
		}
	}()

Publishing:

	evt := events.New(events.EventSnapshotCreated, "Snapshot saved")
	evt.Metadata["path"] = path
	broker.Publish(evt)

# Integration Points

This package integrates with:

  - pkg/deploy: publishes validation, healing, snapshot, and rollback events
  - pkg/watcher: publishes config.changed and re-validation results

# Design Notes

Delivery is fire-and-forget: no acknowledgments, no replay, no persistence.
The broker exists for observation (watch mode output, metrics, future
webhooks), never for control flow. Pipeline correctness must not depend on
an event arriving.
*/
package events
