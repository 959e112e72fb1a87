// Package channel provides a persistent channel to a hub.
//
// A Channel wraps a transport and a session establisher and keeps the
// session alive across transport failures:
//
//   - Start connects once, bounded by SendTimeout, then launches a
//     watchdog that reconnects in the background.
//   - Every Send and Receive call reconnects first if the session is down.
//   - All reconnection goes through a single guard, so concurrent callers
//     never race to re-handshake.
//   - Stop cancels the watchdog and waits for it before closing the
//     transport.
//
// Basic use:
//
//	ch, err := channel.New(channel.Config{
//		Endpoint:       endpoint,
//		Identity:       envelope.Identity{Name: "bot", Domain: "msging.net"},
//		Authentication: envelope.PlainAuthentication{Password: "secret"},
//	})
//	if err != nil {
//		return err
//	}
//	if err := ch.Start(ctx); err != nil {
//		return err
//	}
//	defer ch.Stop()
//
//	err = ch.SendMessage(ctx, envelope.NewTextMessage(to, "hello"))
package channel
