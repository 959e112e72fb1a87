// Package listener dispatches envelopes received on a channel to
// registered receivers.
//
// A Listener runs one receive loop per envelope kind. Every envelope is
// handed to each matching receiver in registration order:
//
//	l := listener.New(ch, listener.Config{Logger: logger})
//	l.AddMessageReceiver(echoReceiver, listener.ForMediaType(envelope.MediaTypeTextPlain))
//	l.AddNotificationReceiver(listener.NotificationReceiverFunc(printNotification))
//	l.Start(ctx)
//	defer l.Stop()
//
// Receiver errors are logged and never stop a loop. Loops end when the
// listener is stopped, the context is cancelled or the channel is stopped.
package listener
