/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package command is the client side of the control API, used by the
// record and status commands to talk to a running recording service.
package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/murmurlab/go-murmur/pkg/config"
	"github.com/murmurlab/go-murmur/pkg/srv"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.ApiAddr()),
	}
}

// RecordStart sends request to start recording into the session
func (c *ApiClient) RecordStart(session string) error {
	body := &srv.RecordRequest{Session: session}
	r, err := req.Post(fmt.Sprintf("%s/record/start", c.ApiPrefix), req.BodyJSON(body))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// RecordStop sends request to stop the active recording
func (c *ApiClient) RecordStop() error {
	r, err := req.Get(fmt.Sprintf("%s/record/stop", c.ApiPrefix))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Status sends request to get the recording service status
func (c *ApiClient) Status() (*srv.Status, error) {
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &srv.Status{}
	err = r.ToJSON(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}
