package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sync/errgroup"

	"github.com/lanrat/perfectrand"
)

const (
	// defaultWorkers is the number of concurrent probe workers to run
	defaultWorkers = 10
	// defaultTimeout is the maximum time allowed for each individual probe
	defaultTimeout = 2 * time.Second

	// protocolIPv4ICMP is IANA ICMP IPv4
	protocolIPv4ICMP = 1
	// protocolIPv6ICMP is IANA ICMP IPv6
	protocolIPv6ICMP = 58
)

// echoPayload is the data carried in every echo request, matched against
// the reply.
var echoPayload = []byte("randsweep")

// probe sends an ICMP echo to every address of the sweep space in permuted
// order, printing the addresses that answered. Workers pull addresses from
// a channel fed by the shuffler's iterator, so no part of the address space
// is ever materialized.
func probe(ctx context.Context, space *sweepSpace, shuffler *perfectrand.Shuffler, limit uint64) error {
	var alive atomic.Uint64
	var tested atomic.Uint64

	total := space.count
	if space.skipEdges {
		total -= 2
	}
	if limit > 0 && limit < total {
		total = limit
	}

	group, grpCtx := errgroup.WithContext(ctx)
	inputChan := make(chan netip.Addr, *workers)

	// start input
	group.Go(func() error {
		defer close(inputChan)
		iter := shuffler.Iterator()
		sent := uint64(0)
		for sent < total {
			idx, ok := iter.Next()
			if !ok {
				return nil
			}
			addr, ok := space.addr(idx)
			if !ok {
				continue
			}
			select {
			case <-grpCtx.Done():
				return grpCtx.Err()
			case inputChan <- addr:
				sent++
			}
		}
		return nil
	})

	// print probing status
	statusStop := make(chan bool)
	if !*verbose {
		defer func() { statusStop <- true }()
		go func() {
			for {
				select {
				case <-statusStop:
					fmt.Printf("\n") // Clear the status
					return
				default:
					testedCount := tested.Load()
					progress := float64(testedCount) / float64(total) * 100
					fmt.Printf("\r Probing %d/%d (%.1f%%) alive: %d", testedCount, total, progress, alive.Load())
				}
			}
		}()
	}

	// start workers
	for i := 0; i < *workers; i++ {
		group.Go(func() error {
			for {
				select {
				case <-grpCtx.Done():
					return grpCtx.Err()
				case addr, ok := <-inputChan:
					if !ok {
						// done
						return nil
					}
					v("probing %s", addr)
					tested.Add(1)
					if err := pingAddr(addr, *timeout); err != nil {
						v("no reply from %s: %v", addr, err)
						continue
					}
					alive.Add(1)
					if !*verbose {
						fmt.Printf("\n") // Clear the status line before printing the address
					}
					fmt.Println(addr)
				}
			}
		})
	}

	// Wait for all goroutines to complete
	if err := group.Wait(); err != nil {
		return err
	}

	l.Printf("probed %d addresses, %d alive", tested.Load(), alive.Load())
	return nil
}

// pingAddr sends a single ICMP echo request over an unprivileged datagram
// socket and waits for the matching reply.
func pingAddr(addr netip.Addr, timeout time.Duration) error {
	network := "udp4"
	listen := "0.0.0.0"
	proto := protocolIPv4ICMP
	var icmpType icmp.Type = ipv4.ICMPTypeEcho
	if addr.Is6() {
		network = "udp6"
		listen = "::"
		proto = protocolIPv6ICMP
		icmpType = ipv6.ICMPTypeEchoRequest
	}

	conn, err := icmp.ListenPacket(network, listen)
	if err != nil {
		return err
	}
	defer conn.Close()

	requestPing := icmp.Echo{
		Seq:  rand.Intn(1 << 16),
		Data: echoPayload,
	}
	icmpBytes, err := (&icmp.Message{Type: icmpType, Code: 0, Body: &requestPing}).Marshal(nil)
	if err != nil {
		return err
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	if _, err := conn.WriteTo(icmpBytes, &net.UDPAddr{IP: net.IP(addr.AsSlice())}); err != nil {
		return err
	}

	reply := make([]byte, 1500)
	n, _, err := conn.ReadFrom(reply)
	if err != nil {
		return err
	}
	replyPacket, err := icmp.ParseMessage(proto, reply[:n])
	if err != nil {
		return err
	}
	replyPing, ok := replyPacket.Body.(*icmp.Echo)
	if !ok {
		return fmt.Errorf("invalid reply type: %v", replyPacket)
	}
	if !bytes.Equal(replyPing.Data, requestPing.Data) || replyPing.Seq != requestPing.Seq {
		return fmt.Errorf("invalid ping reply: %v", replyPing)
	}
	return nil
}
