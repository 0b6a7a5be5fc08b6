package server

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/geomsync/geomsync/internal/core/observability/log"
	"github.com/geomsync/geomsync/pkg/generic"
)

// alpnProtocol is the ALPN token both ends must offer.
const alpnProtocol = "geomsync-quic"

const quicCodeBusy = quic.ApplicationErrorCode(1)

// lineBufPool recycles the buffers that frame response envelopes.
var lineBufPool = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) })

func (s *Server) startQUIC(ctx context.Context) error {
	tlsConfig, err := GenerateSelfSignedTLS()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}

	quicConfig := &quic.Config{
		MaxIdleTimeout: 2 * s.pongWait(),
	}

	listener, err := quic.ListenAddr(s.config.QUICAddr, tlsConfig, quicConfig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.quicListener = listener

	s.logger.Info("quic listening", log.String("addr", listener.Addr().String()))

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		s.acceptQUIC(ctx)
	}()
	return nil
}

func (s *Server) acceptQUIC(ctx context.Context) {
	for {
		conn, err := s.quicListener.Accept(ctx)
		if err != nil {
			if s.IsRunning() {
				s.logger.Error("quic accept failed", log.Error(err))
			}
			return
		}

		if !s.acquireClient() {
			_ = conn.CloseWithError(quicCodeBusy, ErrMaxClientsReached.Error())
			continue
		}

		s.logger.Debug("quic client connected", log.String("remote_addr", conn.RemoteAddr().String()))
		go s.handleQUICConn(ctx, conn)
	}
}

func (s *Server) handleQUICConn(ctx context.Context, conn *quic.Conn) {
	defer func() {
		_ = conn.CloseWithError(0, "closed")
		s.releaseClient()
		s.logger.Debug("quic client disconnected", log.String("remote_addr", conn.RemoteAddr().String()))
	}()

	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go s.serveQUICStream(stream)
	}
}

// serveQUICStream answers newline-delimited envelopes until the peer closes
// its send side.
func (s *Server) serveQUICStream(stream *quic.Stream) {
	defer func() { _ = stream.Close() }()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), int(s.config.MaxMessageSize))

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp Response
		req, err := DecodeRequest(line)
		if err != nil {
			resp = errorResponse(Request{}, err)
		} else {
			resp = s.handler.handle(req)
		}

		out, err := EncodeResponse(resp)
		if err != nil {
			s.logger.Error("quic response encode failed", log.Error(err))
			return
		}

		buf := lineBufPool.Get()
		buf.Reset()
		buf.Write(out)
		buf.WriteByte('\n')
		_, err = stream.Write(buf.Bytes())
		lineBufPool.Put(buf)
		if err != nil {
			return
		}
	}
}

// GenerateSelfSignedTLS builds a development TLS config with a fresh
// self-signed certificate for localhost.
func GenerateSelfSignedTLS() (*tls.Config, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"GeomSync"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:              []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return nil, err
	}

	cert := tls.Certificate{
		Certificate: [][]byte{certDER},
		PrivateKey:  privateKey,
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{alpnProtocol},
		MinVersion:   tls.VersionTLS13,
	}, nil
}
