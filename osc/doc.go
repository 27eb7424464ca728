// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl packets.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html).
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	't' (Timetag)
//	'h' (int64)
//	'd' (float64)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//
//- Decodes OSC bundles, including nested bundles and their TimeTags
//
//Packets
//
//The unit of transmission of OSC is an OSC Packet. An OSC packet consists of its contents,
//a contiguous block of binary data. The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//Decoding never panics: any malformed input yields an error wrapping ErrInvalidPacket.
//
//Usage
//
//Decoding a datagram:
//  p, err := osc.ParsePacket(buf[:n])
//  if err != nil {
//      return err
//  }
//  if msg, ok := p.(*osc.Message); ok {
//      note, err := msg.Float(0)
//      ...
//  }
//
//Sending a message:
//  client, err := osc.Dial("127.0.0.1:9000")
//  if err != nil {
//      return err
//  }
//  defer client.Close()
//  client.Send(osc.NewMessage("/note", float32(60), float32(100)))
package osc
